package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
)

const (
	MaxHoursPerEntry = 24
	// MaxRangeDays bounds the span of a bulk range, end day included.
	MaxRangeDays = 366
)

var (
	ErrNotFound     = errors.New("entry not found")
	ErrInvalidEntry = errors.New("invalid entry")
	ErrEmptyRange   = errors.New("no workdays in range")
)

// Entry is one unit of reported time.
type Entry struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	Date        time.Time
	Project     string
	Description string
	Hours       float64
	Type        WorkType
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Month returns the month the entry belongs to.
func (e *Entry) Month() calendar.Month {
	return calendar.MonthOf(e.Date)
}

type CreateParams struct {
	EmployeeID  uuid.UUID
	Date        time.Time
	Project     string
	Description string
	Hours       float64
	Type        WorkType
}

// Validate enforces the entry invariants at the construction boundary.
func (p CreateParams) Validate() error {
	if p.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employee is required", ErrInvalidEntry)
	}

	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown work type %q", ErrInvalidEntry, p.Type)
	}

	if p.Hours < 0 || p.Hours > MaxHoursPerEntry {
		return fmt.Errorf("%w: hours must be between 0 and %d, got %g", ErrInvalidEntry, MaxHoursPerEntry, p.Hours)
	}

	project := strings.TrimSpace(p.Project)

	if p.Type.RequiresProject() && project == "" {
		return fmt.Errorf("%w: project is required for %s", ErrInvalidEntry, p.Type)
	}

	if !p.Type.RequiresProject() && project != "" {
		return fmt.Errorf("%w: %s entries cannot carry a project", ErrInvalidEntry, p.Type)
	}

	return nil
}

// Normalize trims free text, truncates the date and clears the project of
// types that cannot carry one. Used for input that is weakly typed by nature.
func (p CreateParams) Normalize() CreateParams {
	p.Date = calendar.Truncate(p.Date)
	p.Description = strings.TrimSpace(p.Description)
	p.Project = strings.TrimSpace(p.Project)

	if !p.Type.RequiresProject() {
		p.Project = ""
	}

	return p
}

func (p CreateParams) toEntry() *Entry {
	return &Entry{
		EmployeeID:  p.EmployeeID,
		Date:        calendar.Truncate(p.Date),
		Project:     strings.TrimSpace(p.Project),
		Description: strings.TrimSpace(p.Description),
		Hours:       p.Hours,
		Type:        p.Type,
	}
}

type ListFilter struct {
	EmployeeID *uuid.UUID
	Project    *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// MonthFilter restricts a listing to one employee and one month.
func MonthFilter(employeeID uuid.UUID, m calendar.Month) ListFilter {
	start, end := m.Start(), m.End()

	return ListFilter{
		EmployeeID: &employeeID,
		StartDate:  &start,
		EndDate:    &end,
	}
}

// Matches reports whether the entry passes the filter. Dates compare by day.
func (f ListFilter) Matches(e *Entry) bool {
	if f.EmployeeID != nil && e.EmployeeID != *f.EmployeeID {
		return false
	}

	if f.Project != nil && e.Project != *f.Project {
		return false
	}

	day := calendar.Truncate(e.Date)

	if f.StartDate != nil && day.Before(calendar.Truncate(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && day.After(calendar.Truncate(*f.EndDate)) {
		return false
	}

	return true
}
