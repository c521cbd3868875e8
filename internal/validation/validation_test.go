package validation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

var (
	cal        = calendar.Czech(2000, 2100)
	employeeID = uuid.New()
	april      = calendar.Month{Year: 2024, Month: time.April}
)

func day(d int) time.Time {
	return time.Date(2024, time.April, d, 0, 0, 0, 0, time.UTC)
}

func newEntry(date time.Time, hours float64, t entry.WorkType) *entry.Entry {
	e := &entry.Entry{ID: uuid.New(), EmployeeID: employeeID, Date: date, Hours: hours, Type: t}
	if t.RequiresProject() {
		e.Project = "X"
	}

	return e
}

func kinds(issues []validation.Issue) []validation.Kind {
	out := make([]validation.Kind, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Kind)
	}

	return out
}

func TestValidate_EmptyMonth(t *testing.T) {
	v := validation.New(cal, 8, false)

	months := []calendar.Month{
		{Year: 2024, Month: time.February},
		{Year: 2024, Month: time.April},
		{Year: 2024, Month: time.May},
		{Year: 2024, Month: time.December},
		{Year: 2023, Month: time.February},
	}

	for _, m := range months {
		t.Run(m.String(), func(t *testing.T) {
			ref := m.End().AddDate(0, 0, 1)
			issues := v.Validate(nil, m, ref)

			assert.Len(t, issues, len(cal.Workdays(m)))

			for _, i := range issues {
				assert.Equal(t, validation.KindMissingDay, i.Kind)
				assert.Equal(t, validation.SeverityError, i.Severity)
				assert.True(t, cal.IsWorkday(i.Date))
			}
		})
	}

	t.Run("FutureDaysSkipped", func(t *testing.T) {
		issues := v.Validate(nil, april, day(10))

		// 2, 3, 4, 5, 8, 9, 10
		assert.Len(t, issues, 7)
		assert.Equal(t, day(10), issues[len(issues)-1].Date)
	})
}

func TestValidate_April2024(t *testing.T) {
	v := validation.New(cal, 8, false)

	workdays := cal.Workdays(april)
	require.Len(t, workdays, 21)

	var entries []*entry.Entry
	for _, d := range workdays[:len(workdays)-1] {
		entries = append(entries, newEntry(d, 8, entry.TypeRegular))
	}

	issues := v.Validate(entries, april, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC))

	require.Len(t, issues, 1)
	assert.Equal(t, validation.KindMissingDay, issues[0].Kind)
	assert.Equal(t, day(30), issues[0].Date)
	assert.Equal(t, validation.Counts{Errors: 1}, validation.Summary(issues))
}

func TestValidate_Rules(t *testing.T) {
	beforeApril := day(1).AddDate(0, 0, -1)

	type testCase struct {
		name          string
		entries       []*entry.Entry
		referenceDate time.Time
		exemptAbsence bool
		want          []validation.Issue
	}

	tests := []testCase{
		{
			name:          "Monday overtime 10h",
			entries:       []*entry.Entry{newEntry(day(8), 10, entry.TypeOvertime)},
			referenceDate: beforeApril,
			want: []validation.Issue{
				{Date: day(8), Severity: validation.SeverityWarning, Kind: validation.KindExcessiveHours, Hours: 2},
			},
		},
		{
			name: "Exactly eight hours split",
			entries: []*entry.Entry{
				newEntry(day(2), 6, entry.TypeRegular),
				newEntry(day(2), 2, entry.TypeDoctor),
			},
			referenceDate: day(2),
		},
		{
			name: "Fractional hours adding up to eight",
			entries: []*entry.Entry{
				newEntry(day(2), 0.1, entry.TypeRegular),
				newEntry(day(2), 4.1, entry.TypeRegular),
				newEntry(day(2), 3.8, entry.TypeDoctor),
			},
			referenceDate: day(2),
		},
		{
			name: "Fractional hours not over eight",
			entries: []*entry.Entry{
				newEntry(day(2), 1.06, entry.TypeRegular),
				newEntry(day(2), 6.73, entry.TypeRegular),
				newEntry(day(2), 0.21, entry.TypeRegular),
			},
			referenceDate: day(2),
		},
		{
			name: "Fractional shortfall",
			entries: []*entry.Entry{
				newEntry(day(2), 0.1, entry.TypeRegular),
				newEntry(day(2), 4.1, entry.TypeRegular),
				newEntry(day(2), 3.7, entry.TypeRegular),
			},
			referenceDate: day(2),
			want: []validation.Issue{
				{Date: day(2), Severity: validation.SeverityWarning, Kind: validation.KindInsufficientHours, Hours: 0.1},
			},
		},
		{
			name:          "Short past day",
			entries:       []*entry.Entry{newEntry(day(8), 6.5, entry.TypeRegular)},
			referenceDate: day(8),
			want: []validation.Issue{
				{Date: day(2), Severity: validation.SeverityError, Kind: validation.KindMissingDay},
				{Date: day(3), Severity: validation.SeverityError, Kind: validation.KindMissingDay},
				{Date: day(4), Severity: validation.SeverityError, Kind: validation.KindMissingDay},
				{Date: day(5), Severity: validation.SeverityError, Kind: validation.KindMissingDay},
				{Date: day(8), Severity: validation.SeverityWarning, Kind: validation.KindInsufficientHours, Hours: 1.5},
			},
		},
		{
			name:          "Short future day is not flagged",
			entries:       []*entry.Entry{newEntry(day(8), 4, entry.TypeRegular)},
			referenceDate: beforeApril,
		},
		{
			name:          "Saturday regular work",
			entries:       []*entry.Entry{newEntry(day(6), 4, entry.TypeRegular)},
			referenceDate: beforeApril,
			want: []validation.Issue{
				{Date: day(6), Severity: validation.SeverityWarning, Kind: validation.KindWeekendWork, Hours: 4},
			},
		},
		{
			name:          "Saturday business trip",
			entries:       []*entry.Entry{newEntry(day(6), 4, entry.TypeBusinessTrip)},
			referenceDate: beforeApril,
		},
		{
			name:          "Holiday overtime",
			entries:       []*entry.Entry{newEntry(day(1), 6, entry.TypeOvertime)},
			referenceDate: beforeApril,
		},
		{
			name:          "Easter Monday regular work",
			entries:       []*entry.Entry{newEntry(day(1), 6, entry.TypeRegular)},
			referenceDate: beforeApril,
			want: []validation.Issue{
				{Date: day(1), Severity: validation.SeverityWarning, Kind: validation.KindWeekendWork, Hours: 6},
			},
		},
		{
			name:          "Saturday sick day flagged by default",
			entries:       []*entry.Entry{newEntry(day(6), 4, entry.TypeSickDay)},
			referenceDate: beforeApril,
			want: []validation.Issue{
				{Date: day(6), Severity: validation.SeverityWarning, Kind: validation.KindWeekendWork, Hours: 4},
			},
		},
		{
			name:          "Saturday sick day exempted",
			entries:       []*entry.Entry{newEntry(day(6), 4, entry.TypeSickDay)},
			referenceDate: beforeApril,
			exemptAbsence: true,
		},
		{
			name: "Exemption does not cover mixed days",
			entries: []*entry.Entry{
				newEntry(day(6), 4, entry.TypeSickDay),
				newEntry(day(6), 2, entry.TypeRegular),
			},
			referenceDate: beforeApril,
			exemptAbsence: true,
			want: []validation.Issue{
				{Date: day(6), Severity: validation.SeverityWarning, Kind: validation.KindWeekendWork, Hours: 6},
			},
		},
		{
			name:          "Entry outside month",
			entries:       []*entry.Entry{newEntry(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), 8, entry.TypeRegular)},
			referenceDate: beforeApril,
			want: []validation.Issue{
				{Date: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), Severity: validation.SeverityWarning, Kind: validation.KindOther},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.New(cal, 8, tt.exemptAbsence)
			got := v.Validate(tt.entries, april, tt.referenceDate)

			require.Len(t, got, len(tt.want), "issues: %v", kinds(got))

			for i, want := range tt.want {
				assert.Equal(t, want.Date, got[i].Date)
				assert.Equal(t, want.Kind, got[i].Kind)
				assert.Equal(t, want.Severity, got[i].Severity)
				assert.InDelta(t, want.Hours, got[i].Hours, 1e-9)
				assert.NotEmpty(t, got[i].Message)
				assert.NotContains(t, got[i].Message, "99999")
			}
		})
	}
}

func TestValidate_AscendingOrder(t *testing.T) {
	v := validation.New(cal, 8, false)

	entries := []*entry.Entry{
		newEntry(day(30), 12, entry.TypeRegular),
		newEntry(day(13), 3, entry.TypeVacation),
		newEntry(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), 8, entry.TypeRegular),
	}

	got := v.Validate(entries, april, day(30).AddDate(0, 0, 1))

	// 20 missing workdays, the Saturday absence, the excess on the 30th and the stray March entry.
	require.Len(t, got, 23)
	assert.Equal(t, validation.KindOther, got[0].Kind)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.Before(got[i-1].Date), "issue %d out of order", i)
	}

	last := got[len(got)-1]
	assert.Equal(t, validation.KindExcessiveHours, last.Kind)
	assert.Equal(t, day(30), last.Date)
	assert.InDelta(t, 4, last.Hours, 1e-9)
}

func TestValidateMonth(t *testing.T) {
	opts := validation.Options{
		ReferenceDate: time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
		Holidays:      cal,
	}

	t.Run("Leap February", func(t *testing.T) {
		issues, err := validation.ValidateMonth(nil, "2024", "02", opts)
		require.NoError(t, err)
		assert.Len(t, issues, 21)
		assert.Equal(t, 29, issues[len(issues)-1].Date.Day())
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := validation.ValidateMonth(nil, "2024", "13", opts)
		assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
	})

	t.Run("Invalid year", func(t *testing.T) {
		_, err := validation.ValidateMonth(nil, "twenty", "04", opts)
		assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
	})

	t.Run("Zero reference date means today", func(t *testing.T) {
		issues, err := validation.ValidateMonth(nil, "2024", "04", validation.Options{Holidays: cal})
		require.NoError(t, err)
		assert.Len(t, issues, 21)

		for _, i := range issues {
			assert.Equal(t, validation.KindMissingDay, i.Kind)
		}
	})

	t.Run("Default standard hours", func(t *testing.T) {
		entries := []*entry.Entry{newEntry(day(8), 9, entry.TypeRegular)}
		o := opts
		o.ReferenceDate = day(1)

		issues, err := validation.ValidateMonth(entries, "2024", "4", o)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, validation.KindExcessiveHours, issues[0].Kind)
		assert.InDelta(t, 1, issues[0].Hours, 1e-9)
	})
}

func TestErrors(t *testing.T) {
	issues := []validation.Issue{
		{Severity: validation.SeverityError, Kind: validation.KindMissingDay},
		{Severity: validation.SeverityWarning, Kind: validation.KindWeekendWork},
	}

	assert.Len(t, validation.Errors(issues), 1)
	assert.Equal(t, validation.Counts{Errors: 1, Warnings: 1}, validation.Summary(issues))
}
