package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

const (
	AllHistory   = "Celá historie"
	AllEmployees = "Všichni zaměstnanci"
)

type EntryLister interface {
	List(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error)
}

type NameSource interface {
	Names(ctx context.Context) (aggregate.NameResolver, error)
}

type MonthValidator interface {
	Validate(entries []*entry.Entry, m calendar.Month, referenceDate time.Time) []validation.Issue
}

// Renderer converts an HTML document to PDF.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Filter selects the entries of a report. Zero values mean "all".
type Filter struct {
	EmployeeID *uuid.UUID
	Project    *string
	Month      calendar.Month
}

// Report is the filtered entry set with everything the outputs need.
type Report struct {
	Filter       Filter
	Entries      []*entry.Entry
	Names        aggregate.NameResolver
	Aggregate    aggregate.Result
	Issues       []validation.Issue
	Period       string
	EmployeeName string
	GeneratedAt  time.Time
}

type Service struct {
	entries   EntryLister
	names     NameSource
	validator MonthValidator
	renderer  Renderer
	recipient string
	now       func() time.Time
}

// NewService creates the report service. renderer may be nil, in which case
// PDF output is unavailable.
func NewService(entries EntryLister, names NameSource, validator MonthValidator, renderer Renderer, recipient string) *Service {
	return &Service{
		entries:   entries,
		names:     names,
		validator: validator,
		renderer:  renderer,
		recipient: recipient,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Build(ctx context.Context, filter Filter) (*Report, error) {
	lf := entry.ListFilter{EmployeeID: filter.EmployeeID, Project: filter.Project}

	if !filter.Month.IsZero() {
		start, end := filter.Month.Start(), filter.Month.End()
		lf.StartDate, lf.EndDate = &start, &end
	}

	entries, err := s.entries.List(ctx, lf)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	names, err := s.names.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading employee names: %w", err)
	}

	r := &Report{
		Filter:       filter,
		Entries:      entries,
		Names:        names,
		Aggregate:    aggregate.Aggregate(entries, names),
		Period:       AllHistory,
		EmployeeName: AllEmployees,
		GeneratedAt:  s.now(),
	}

	if filter.EmployeeID != nil {
		r.EmployeeName = names.Name(*filter.EmployeeID)
	}

	if !filter.Month.IsZero() {
		r.Period = filter.Month.String()
		r.Issues = s.issues(entries, filter)
	}

	return r, nil
}

// issues validates each employee separately. A selected employee without
// entries is still validated so missing days show up.
func (s *Service) issues(entries []*entry.Entry, filter Filter) []validation.Issue {
	byEmployee := make(map[uuid.UUID][]*entry.Entry)
	if filter.EmployeeID != nil {
		byEmployee[*filter.EmployeeID] = nil
	}

	for _, e := range entries {
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], e)
	}

	ids := make([]uuid.UUID, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var out []validation.Issue
	for _, id := range ids {
		out = append(out, s.validator.Validate(byEmployee[id], filter.Month, s.now())...)
	}

	return out
}

type Email struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// EmailDraft prepares the message for the payroll accountant.
func (s *Service) EmailDraft(r *Report) Email {
	period := r.Period
	name := r.EmployeeName

	if r.Filter.Month.IsZero() {
		period = "Souhrn"
	}

	if r.Filter.EmployeeID == nil {
		name = "Hromadný výkaz"
	}

	var sb strings.Builder

	sb.WriteString("Dobrý den,\n\n")
	sb.WriteString(fmt.Sprintf("v příloze zasílám vygenerovaný výkaz práce za období %s.\n\n", period))

	if !r.Filter.Month.IsZero() {
		counts := validation.Summary(r.Issues)

		if counts.Errors == 0 && counts.Warnings == 0 {
			sb.WriteString("Automatická kontrola: výkaz je kompletní a bez nalezených chyb.\n")
		} else {
			sb.WriteString("Automatická kontrola upozorňuje:\n")

			if counts.Errors > 0 {
				sb.WriteString(fmt.Sprintf("- %dx chyba (chybějící dny nebo nedostatek hodin)\n", counts.Errors))
			}

			if counts.Warnings > 0 {
				sb.WriteString(fmt.Sprintf("- %dx varování (přesčasy nebo práce mimo pracovní dny)\n", counts.Warnings))
			}

			sb.WriteString("Prosím o kontrolu.\n")
		}

		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("S pozdravem,\n%s\n", name))

	return Email{
		Recipient: s.recipient,
		Subject:   fmt.Sprintf("Podklady pro mzdy - %s - %s", name, period),
		Body:      sb.String(),
	}
}

// Filename builds a file name safe for any file system from the report scope.
func (r *Report) Filename(prefix, ext string) string {
	safe := strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			return c
		}

		return '_'
	}, r.EmployeeName+"_"+r.Period)

	return fmt.Sprintf("%s_%s.%s", prefix, safe, ext)
}
