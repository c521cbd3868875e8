// Package aggregate sums entries per project, employee and work type.
package aggregate

import (
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

const UnknownEmployee = "Unknown"

type ProjectTotal struct {
	Name     string  `json:"name"`
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Total    float64 `json:"total"`
}

type EmployeeTotal struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type TypeTotal struct {
	Type  entry.WorkType `json:"type"`
	Label string         `json:"label"`
	Hours float64        `json:"hours"`
}

// Result is ordered deterministically: projects and employees by name,
// types in entry.Types order.
type Result struct {
	Projects  []ProjectTotal  `json:"projects"`
	Employees []EmployeeTotal `json:"employees"`
	Types     []TypeTotal     `json:"types"`

	TotalRegularProductive float64 `json:"total_regular_productive"`
	TotalOvertime          float64 `json:"total_overtime"`
	TotalAbsence           float64 `json:"total_absence"`
	TotalWorked            float64 `json:"total_worked"`
	Total                  float64 `json:"total"`
}

// NameResolver maps employee IDs to display names. Unknown IDs resolve to
// UnknownEmployee.
type NameResolver map[uuid.UUID]string

func (n NameResolver) Name(id uuid.UUID) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}

	return UnknownEmployee
}

func Aggregate(entries []*entry.Entry, names NameResolver) Result {
	projects := make(map[string]*ProjectTotal)
	employees := make(map[string]float64)
	types := make(map[entry.WorkType]float64)

	var r Result

	for _, e := range entries {
		employees[names.Name(e.EmployeeID)] += e.Hours
		types[e.Type] += e.Hours
		r.Total += e.Hours

		if !e.Type.Productive() {
			r.TotalAbsence += e.Hours
			continue
		}

		p := projects[e.Project]
		if p == nil {
			p = &ProjectTotal{Name: e.Project}
			projects[e.Project] = p
		}

		if e.Type.IsOvertime() {
			p.Overtime += e.Hours
			r.TotalOvertime += e.Hours
		} else {
			p.Regular += e.Hours
			r.TotalRegularProductive += e.Hours
		}

		p.Total += e.Hours
	}

	r.TotalWorked = r.TotalRegularProductive + r.TotalOvertime

	r.Projects = make([]ProjectTotal, 0, len(projects))
	for _, p := range projects {
		r.Projects = append(r.Projects, *p)
	}

	sort.Slice(r.Projects, func(i, j int) bool { return r.Projects[i].Name < r.Projects[j].Name })

	r.Employees = make([]EmployeeTotal, 0, len(employees))
	for name, hours := range employees {
		r.Employees = append(r.Employees, EmployeeTotal{Name: name, Hours: hours})
	}

	sort.Slice(r.Employees, func(i, j int) bool { return r.Employees[i].Name < r.Employees[j].Name })

	r.Types = make([]TypeTotal, 0, len(types))
	for _, t := range entry.Types() {
		if hours, ok := types[t]; ok {
			r.Types = append(r.Types, TypeTotal{Type: t, Label: t.Label(), Hours: hours})
		}
	}

	return r
}

// Absences returns the non-productive type totals.
func (r Result) Absences() []TypeTotal {
	var out []TypeTotal

	for _, t := range r.Types {
		if !t.Type.Productive() {
			out = append(out, t)
		}
	}

	return out
}
