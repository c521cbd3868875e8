package entry

import (
	"fmt"
	"strings"
)

// WorkType is the category of reported time.
type WorkType string

const (
	TypeRegular           WorkType = "regular"
	TypeOvertime          WorkType = "overtime"
	TypeVacation          WorkType = "vacation"
	TypeSickDay           WorkType = "sick_day"
	TypeHoliday           WorkType = "holiday"
	TypeCareLeave         WorkType = "care_leave"
	TypeDoctor            WorkType = "doctor"
	TypeBusinessTrip      WorkType = "business_trip"
	TypeUnpaidLeave       WorkType = "unpaid_leave"
	TypeCompensatoryLeave WorkType = "compensatory_leave"
	TypeOtherObstacle     WorkType = "other_obstacle"
	TypeReducedPay        WorkType = "reduced_pay"
)

type typeInfo struct {
	label          string
	productive     bool
	requireProject bool
}

// classification is the only place that decides how a work type counts.
// Validation, aggregation and export all read it through the WorkType methods.
var classification = map[WorkType]typeInfo{
	TypeRegular:           {label: "Běžná práce", productive: true, requireProject: true},
	TypeOvertime:          {label: "Přesčas", productive: true, requireProject: true},
	TypeVacation:          {label: "Dovolená"},
	TypeSickDay:           {label: "Nemocenská"},
	TypeHoliday:           {label: "Svátek"},
	TypeCareLeave:         {label: "OČR (Ošetřovné)"},
	TypeDoctor:            {label: "Lékař"},
	TypeBusinessTrip:      {label: "Služební cesta", productive: true},
	TypeUnpaidLeave:       {label: "Neplacené volno"},
	TypeCompensatoryLeave: {label: "Náhradní volno"},
	TypeOtherObstacle:     {label: "Jiná překážka"},
	TypeReducedPay:        {label: "60%"},
}

// Types lists every work type in display order.
func Types() []WorkType {
	return []WorkType{
		TypeRegular,
		TypeOvertime,
		TypeVacation,
		TypeSickDay,
		TypeHoliday,
		TypeCareLeave,
		TypeDoctor,
		TypeBusinessTrip,
		TypeUnpaidLeave,
		TypeCompensatoryLeave,
		TypeOtherObstacle,
		TypeReducedPay,
	}
}

func (t WorkType) Valid() bool {
	_, ok := classification[t]
	return ok
}

// Productive reports whether hours of this type count toward project totals.
func (t WorkType) Productive() bool {
	return classification[t].productive
}

// RequiresProject reports whether entries of this type must name a project.
// All other types must leave the project empty.
func (t WorkType) RequiresProject() bool {
	return classification[t].requireProject
}

// IsOvertime reports whether hours go to the overtime bucket.
func (t WorkType) IsOvertime() bool {
	return t == TypeOvertime
}

// Label returns the Czech label used in reports.
func (t WorkType) Label() string {
	if info, ok := classification[t]; ok {
		return info.label
	}

	return string(t)
}

// ParseWorkType accepts either a type code or its Czech label.
func ParseWorkType(s string) (WorkType, error) {
	s = strings.TrimSpace(s)

	if t := WorkType(strings.ToLower(s)); t.Valid() {
		return t, nil
	}

	for t, info := range classification {
		if strings.EqualFold(info.label, s) {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: unknown work type %q", ErrInvalidEntry, s)
}
