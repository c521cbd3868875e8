// Package validation inspects one employee's entries for a calendar month and
// reports missing days, hour irregularities and non-workday reporting.
package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

const DefaultStandardHours = 8.0

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Kind string

const (
	KindMissingDay        Kind = "missing_day"
	KindInsufficientHours Kind = "insufficient_hours"
	KindExcessiveHours    Kind = "excessive_hours"
	KindWeekendWork       Kind = "weekend_work"
	KindOther             Kind = "other"
)

// Issue is a finding about one day. Hours carries the shortfall or excess
// where the kind has one.
type Issue struct {
	Date     time.Time `json:"date"`
	Severity Severity  `json:"severity"`
	Kind     Kind      `json:"kind"`
	Message  string    `json:"message"`
	Hours    float64   `json:"hours,omitempty"`
}

type HolidayChecker interface {
	IsHoliday(t time.Time) (bool, string)
}

type Options struct {
	// ReferenceDate is "today". Days after it are not checked for missing
	// or insufficient hours. Zero means the current date.
	ReferenceDate time.Time
	Holidays      HolidayChecker
	StandardHours float64
	// ExemptAbsenceOnNonWorkday stops the weekend rule from flagging days
	// whose entries are all absences.
	ExemptAbsenceOnNonWorkday bool
}

type Validator struct {
	holidays      HolidayChecker
	standardHours float64
	exemptAbsence bool
}

func New(holidays HolidayChecker, standardHours float64, exemptAbsence bool) *Validator {
	if standardHours <= 0 {
		standardHours = DefaultStandardHours
	}

	return &Validator{
		holidays:      holidays,
		standardHours: standardHours,
		exemptAbsence: exemptAbsence,
	}
}

// ValidateMonth parses year and month and validates entries against them.
func ValidateMonth(entries []*entry.Entry, year, month string, opts Options) ([]Issue, error) {
	m, err := calendar.ParseYearMonth(year, month)
	if err != nil {
		return nil, fmt.Errorf("validating month: %w", err)
	}

	v := New(opts.Holidays, opts.StandardHours, opts.ExemptAbsenceOnNonWorkday)

	return v.Validate(entries, m, opts.ReferenceDate), nil
}

// Day totals are summed in decimal so hours that add up to the standard
// compare equal to it.
type dayEntries struct {
	total   decimal.Decimal
	entries []*entry.Entry
}

// Validate returns every issue of the month in ascending date order; issues
// of the same day keep rule order. A zero referenceDate means today.
func (v *Validator) Validate(entries []*entry.Entry, m calendar.Month, referenceDate time.Time) []Issue {
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}

	today := calendar.Truncate(referenceDate)
	byDay := make(map[int]*dayEntries, m.Days())

	var issues []Issue

	for _, e := range entries {
		if !m.Contains(e.Date) {
			issues = append(issues, Issue{
				Date:     calendar.Truncate(e.Date),
				Severity: SeverityWarning,
				Kind:     KindOther,
				Message:  fmt.Sprintf("entry dated outside %s", m),
			})

			continue
		}

		d := byDay[e.Date.Day()]
		if d == nil {
			d = &dayEntries{}
			byDay[e.Date.Day()] = d
		}

		d.total = d.total.Add(decimal.NewFromFloat(e.Hours))
		d.entries = append(d.entries, e)
	}

	for _, date := range m.Dates() {
		issues = append(issues, v.checkDay(date, byDay[date.Day()], today)...)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Date.Before(issues[j].Date)
	})

	return issues
}

func (v *Validator) isWorkday(date time.Time) bool {
	if calendar.IsWeekend(date) {
		return false
	}

	if v.holidays == nil {
		return true
	}

	holiday, _ := v.holidays.IsHoliday(date)

	return !holiday
}

func (v *Validator) checkDay(date time.Time, d *dayEntries, today time.Time) []Issue {
	var issues []Issue

	hasAnyEntry := d != nil && len(d.entries) > 0
	future := date.After(today)

	total := decimal.Zero
	if d != nil {
		total = d.total
	}

	standard := decimal.NewFromFloat(v.standardHours)

	if !v.isWorkday(date) {
		if hasAnyEntry && v.flagNonWorkday(d.entries) {
			issues = append(issues, Issue{
				Date:     date,
				Severity: SeverityWarning,
				Kind:     KindWeekendWork,
				Message:  fmt.Sprintf("%s h reported on a non-working day", total),
				Hours:    total.InexactFloat64(),
			})
		}

		return issues
	}

	if !hasAnyEntry {
		if !future {
			issues = append(issues, Issue{
				Date:     date,
				Severity: SeverityError,
				Kind:     KindMissingDay,
				Message:  "no entry for workday",
			})
		}

		return issues
	}

	if total.LessThan(standard) && !future {
		shortfall := standard.Sub(total)
		issues = append(issues, Issue{
			Date:     date,
			Severity: SeverityWarning,
			Kind:     KindInsufficientHours,
			Message:  fmt.Sprintf("%s h reported, %s h short of %s h", total, shortfall, standard),
			Hours:    shortfall.InexactFloat64(),
		})
	}

	if total.GreaterThan(standard) {
		excess := total.Sub(standard)
		issues = append(issues, Issue{
			Date:     date,
			Severity: SeverityWarning,
			Kind:     KindExcessiveHours,
			Message:  fmt.Sprintf("%s h reported, %s h over %s h", total, excess, standard),
			Hours:    excess.InexactFloat64(),
		})
	}

	return issues
}

// flagNonWorkday applies the weekend rule: business trips and overtime
// legitimise a non-working day, anything else is flagged.
func (v *Validator) flagNonWorkday(entries []*entry.Entry) bool {
	allAbsence := true

	for _, e := range entries {
		if e.Type == entry.TypeBusinessTrip || e.Type == entry.TypeOvertime {
			return false
		}

		if e.Type.Productive() {
			allAbsence = false
		}
	}

	if v.exemptAbsence && allAbsence {
		return false
	}

	return true
}

type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func Summary(issues []Issue) Counts {
	var c Counts

	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			c.Errors++
		case SeverityWarning:
			c.Warnings++
		}
	}

	return c
}

// Errors returns the error-severity issues only.
func Errors(issues []Issue) []Issue {
	var out []Issue

	for _, i := range issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}

	return out
}
