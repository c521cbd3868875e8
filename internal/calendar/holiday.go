package calendar

import (
	"sort"
	"time"
)

// Fixed is a holiday falling on the same date every year.
type Fixed struct {
	Month time.Month
	Day   int
	Name  string
	Since int // first year observed, 0 = always
}

// Moveable is a holiday defined relative to Easter Sunday.
type Moveable struct {
	Offset int // days from Easter Sunday
	Name   string
	Since  int
}

// Holiday is a resolved public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar answers holiday lookups from a yearly rule table.
// Years outside [MinYear, MaxYear] have no holidays.
type Calendar struct {
	MinYear  int
	MaxYear  int
	Fixed    []Fixed
	Moveable []Moveable
}

// Czech returns the public holiday table of the Czech Republic.
func Czech(minYear, maxYear int) *Calendar {
	return &Calendar{
		MinYear: minYear,
		MaxYear: maxYear,
		Fixed: []Fixed{
			{Month: time.January, Day: 1, Name: "Den obnovy samostatného českého státu"},
			{Month: time.May, Day: 1, Name: "Svátek práce"},
			{Month: time.May, Day: 8, Name: "Den vítězství"},
			{Month: time.July, Day: 5, Name: "Den slovanských věrozvěstů Cyrila a Metoděje"},
			{Month: time.July, Day: 6, Name: "Den upálení mistra Jana Husa"},
			{Month: time.September, Day: 28, Name: "Den české státnosti"},
			{Month: time.October, Day: 28, Name: "Den vzniku samostatného československého státu"},
			{Month: time.November, Day: 17, Name: "Den boje za svobodu a demokracii"},
			{Month: time.December, Day: 24, Name: "Štědrý den"},
			{Month: time.December, Day: 25, Name: "1. svátek vánoční"},
			{Month: time.December, Day: 26, Name: "2. svátek vánoční"},
		},
		Moveable: []Moveable{
			{Offset: -2, Name: "Velký pátek", Since: 2016},
			{Offset: 1, Name: "Velikonoční pondělí"},
		},
	}
}

// IsHoliday reports whether the date is a public holiday and returns its name.
func (c *Calendar) IsHoliday(t time.Time) (bool, string) {
	year := t.Year()
	if c == nil || year < c.MinYear || year > c.MaxYear {
		return false, ""
	}

	for _, f := range c.Fixed {
		if f.Since > year {
			continue
		}

		if t.Month() == f.Month && t.Day() == f.Day {
			return true, f.Name
		}
	}

	if len(c.Moveable) == 0 {
		return false, ""
	}

	easter := Easter(year)
	day := Truncate(t)

	for _, mv := range c.Moveable {
		if mv.Since > year {
			continue
		}

		if easter.AddDate(0, 0, mv.Offset).Equal(day) {
			return true, mv.Name
		}
	}

	return false, ""
}

// IsWorkday reports whether the date is neither a weekend day nor a holiday.
func (c *Calendar) IsWorkday(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}

	holiday, _ := c.IsHoliday(t)

	return !holiday
}

// Workdays lists the workdays of the month.
func (c *Calendar) Workdays(m Month) []time.Time {
	var days []time.Time

	for _, d := range m.Dates() {
		if c.IsWorkday(d) {
			days = append(days, d)
		}
	}

	return days
}

// Holidays lists the holidays of a year in date order.
func (c *Calendar) Holidays(year int) []Holiday {
	if c == nil || year < c.MinYear || year > c.MaxYear {
		return nil
	}

	var out []Holiday

	for _, f := range c.Fixed {
		if f.Since > year {
			continue
		}

		out = append(out, Holiday{Date: time.Date(year, f.Month, f.Day, 0, 0, 0, 0, time.UTC), Name: f.Name})
	}

	easter := Easter(year)
	for _, mv := range c.Moveable {
		if mv.Since > year {
			continue
		}

		out = append(out, Holiday{Date: easter.AddDate(0, 0, mv.Offset), Name: mv.Name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out
}

// Easter returns Easter Sunday of the Gregorian calendar (anonymous Gregorian algorithm).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
