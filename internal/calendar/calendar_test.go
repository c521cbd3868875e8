package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMonth(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    calendar.Month
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", input: "2024-04", want: calendar.Month{Year: 2024, Month: time.April}},
		{name: "Single digit month", input: "2024-4", want: calendar.Month{Year: 2024, Month: time.April}},
		{name: "Month 13", input: "2024-13", wantErr: true},
		{name: "Month zero", input: "2024-00", wantErr: true},
		{name: "Missing separator", input: "202404", wantErr: true},
		{name: "Garbage", input: "abcd-ef", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calendar.ParseMonth(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonth_Days(t *testing.T) {
	tests := map[string]int{
		"2024-02": 29,
		"2023-02": 28,
		"1900-02": 28,
		"2000-02": 29,
		"2024-04": 30,
		"2024-12": 31,
	}

	for key, want := range tests {
		t.Run(key, func(t *testing.T) {
			m, err := calendar.ParseMonth(key)
			require.NoError(t, err)
			assert.Equal(t, want, m.Days())
			assert.Len(t, m.Dates(), want)
			assert.Equal(t, want, m.End().Day())
		})
	}
}

func TestMonth_Navigation(t *testing.T) {
	m := calendar.Month{Year: 2024, Month: time.December}
	assert.Equal(t, "2025-01", m.Next().String())
	assert.Equal(t, "2024-11", m.Prev().String())
	assert.True(t, m.Contains(date(2024, time.December, 31)))
	assert.False(t, m.Contains(date(2025, time.January, 1)))
}

func TestEaster(t *testing.T) {
	tests := map[int]time.Time{
		2016: date(2016, time.March, 27),
		2019: date(2019, time.April, 21),
		2024: date(2024, time.March, 31),
		2025: date(2025, time.April, 20),
		2026: date(2026, time.April, 5),
	}

	for year, want := range tests {
		assert.Equal(t, want, calendar.Easter(year), "easter %d", year)
	}
}

func TestCalendar_IsHoliday(t *testing.T) {
	cal := calendar.Czech(2000, 2100)

	type testCase struct {
		name     string
		date     time.Time
		want     bool
		wantName string
	}

	tests := []testCase{
		{name: "New Year", date: date(2024, time.January, 1), want: true, wantName: "Den obnovy samostatného českého státu"},
		{name: "Easter Monday 2024", date: date(2024, time.April, 1), want: true, wantName: "Velikonoční pondělí"},
		{name: "Good Friday 2024", date: date(2024, time.March, 29), want: true, wantName: "Velký pátek"},
		{name: "Good Friday before 2016", date: date(2015, time.April, 3), want: false},
		{name: "Labour Day", date: date(2024, time.May, 1), want: true, wantName: "Svátek práce"},
		{name: "Christmas Eve", date: date(2024, time.December, 24), want: true, wantName: "Štědrý den"},
		{name: "Ordinary day", date: date(2024, time.April, 2), want: false},
		{name: "Out of range", date: date(1990, time.January, 1), want: false},
		{name: "Time of day ignored", date: time.Date(2024, time.April, 1, 15, 30, 0, 0, time.UTC), want: true, wantName: "Velikonoční pondělí"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, name := cal.IsHoliday(tt.date)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestCalendar_Workdays(t *testing.T) {
	cal := calendar.Czech(2000, 2100)

	april := calendar.Month{Year: 2024, Month: time.April}
	// 22 weekdays minus Easter Monday.
	assert.Len(t, cal.Workdays(april), 21)
	assert.False(t, cal.IsWorkday(date(2024, time.April, 6)))
	assert.True(t, cal.IsWorkday(date(2024, time.April, 2)))

	assert.Len(t, cal.Holidays(2024), 13)
	assert.Empty(t, cal.Holidays(1999))
}

func TestParseDate(t *testing.T) {
	got, err := calendar.ParseDate("2024-04-15")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 15), got)

	_, err = calendar.ParseDate("15.04.2024")
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}
