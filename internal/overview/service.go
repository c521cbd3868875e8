// Package overview summarises a month across the whole team.
package overview

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/employee"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type EmployeeLister interface {
	List(ctx context.Context) ([]*employee.Employee, error)
}

type EntryLister interface {
	List(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error)
}

type StatusLister interface {
	List(ctx context.Context, month calendar.Month) ([]*status.MonthStatus, error)
}

type WorkdayCounter interface {
	Workdays(m calendar.Month) []time.Time
}

type Row struct {
	EmployeeID   uuid.UUID     `json:"employee_id"`
	Name         string        `json:"name"`
	Role         status.Role   `json:"role"`
	TotalHours   float64       `json:"total_hours"`
	EntryCount   int           `json:"entry_count"`
	LastEntry    *time.Time    `json:"last_entry,omitempty"`
	WorkFund     float64       `json:"work_fund"`
	Progress     float64       `json:"progress"`
	Status       status.Status `json:"status"`
	StatusSetAt  *time.Time    `json:"status_set_at,omitempty"`
	ManagerNotes string        `json:"manager_comment,omitempty"`
}

type Team struct {
	Month    calendar.Month `json:"month"`
	Workdays int            `json:"workdays"`
	Rows     []Row          `json:"rows"`
}

type Service struct {
	employees     EmployeeLister
	entries       EntryLister
	statuses      StatusLister
	calendar      WorkdayCounter
	standardHours float64
}

func NewService(employees EmployeeLister, entries EntryLister, statuses StatusLister, cal WorkdayCounter, standardHours float64) *Service {
	return &Service{
		employees:     employees,
		entries:       entries,
		statuses:      statuses,
		calendar:      cal,
		standardHours: standardHours,
	}
}

// Team returns one row per employee. The work fund is the number of workdays
// times the standard day, so progress reflects the actual month.
func (s *Service) Team(ctx context.Context, month calendar.Month) (*Team, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	start, end := month.Start(), month.End()

	entries, err := s.entries.List(ctx, entry.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	statuses, err := s.statuses.List(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("listing statuses: %w", err)
	}

	byEmployee := make(map[uuid.UUID]*status.MonthStatus, len(statuses))
	for _, st := range statuses {
		byEmployee[st.EmployeeID] = st
	}

	workdays := len(s.calendar.Workdays(month))
	fund := float64(workdays) * s.standardHours

	rows := make(map[uuid.UUID]*Row, len(employees))
	for _, emp := range employees {
		row := &Row{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Role:       emp.Role,
			WorkFund:   fund,
			Status:     status.StatusDraft,
		}

		if st, ok := byEmployee[emp.ID]; ok {
			row.Status = st.Status
			row.ManagerNotes = st.ManagerComment

			switch st.Status {
			case status.StatusSubmitted:
				row.StatusSetAt = st.SubmittedAt
			case status.StatusApproved:
				row.StatusSetAt = st.ApprovedAt
			}
		}

		rows[emp.ID] = row
	}

	for _, e := range entries {
		row, ok := rows[e.EmployeeID]
		if !ok {
			continue
		}

		row.TotalHours += e.Hours
		row.EntryCount++

		if row.LastEntry == nil || e.Date.After(*row.LastEntry) {
			d := e.Date
			row.LastEntry = &d
		}
	}

	team := &Team{Month: month, Workdays: workdays, Rows: make([]Row, 0, len(rows))}

	for _, row := range rows {
		if fund > 0 {
			row.Progress = math.Round(row.TotalHours/fund*1000) / 10
		}

		team.Rows = append(team.Rows, *row)
	}

	sort.Slice(team.Rows, func(i, j int) bool { return team.Rows[i].Name < team.Rows[j].Name })

	return team, nil
}
