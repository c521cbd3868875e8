package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidDate  = errors.New("invalid date")
)

// Month identifies a calendar month. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns the month for the given year and month number.
func NewMonth(year int, month time.Month) (Month, error) {
	if year < 1 || year > 9999 {
		return Month{}, fmt.Errorf("%w: year %d out of range", ErrInvalidMonth, year)
	}

	if month < time.January || month > time.December {
		return Month{}, fmt.Errorf("%w: month %d out of range", ErrInvalidMonth, month)
	}

	return Month{Year: year, Month: month}, nil
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Month{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidMonth, s)
	}

	return ParseYearMonth(year, month)
}

// ParseYearMonth parses separate year and month strings, e.g. "2024" and "04".
func ParseYearMonth(year, month string) (Month, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Month{}, fmt.Errorf("%w: year %q", ErrInvalidMonth, year)
	}

	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q", ErrInvalidMonth, month)
	}

	return NewMonth(y, time.Month(m))
}

// MonthOf returns the month the date falls into.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first day of the month at UTC midnight.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month at UTC midnight.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

func (m Month) Next() Month { return MonthOf(m.Start().AddDate(0, 1, 0)) }
func (m Month) Prev() Month { return MonthOf(m.Start().AddDate(0, -1, 0)) }

// Contains reports whether the date lies within the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Dates lists every day of the month in ascending order.
func (m Month) Dates() []time.Time {
	days := make([]time.Time, 0, m.Days())
	for d := m.Start(); d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	return days
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// ParseDate parses a YYYY-MM-DD date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return t, nil
}

// Truncate drops the time of day, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
