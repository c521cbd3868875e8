package entry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=entry
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
	ReplaceDay(ctx context.Context, employeeID uuid.UUID, date time.Time, entries []*Entry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	LastEntry(ctx context.Context, employeeID uuid.UUID) (*Entry, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Entry, error)
	CreateEntries(ctx context.Context, entries []*Entry) error
	Commit() error
	Rollback() error
}

// MonthGuard decides whether a month accepts entry mutations and versions it.
type MonthGuard interface {
	CheckEditable(ctx context.Context, employeeID uuid.UUID, month calendar.Month, expectedVersion *int64) error
	Bump(ctx context.Context, employeeID uuid.UUID, month calendar.Month) error
}

type WorkdayChecker interface {
	IsWorkday(t time.Time) bool
}

type Service struct {
	repo     Repository
	guard    MonthGuard
	workdays WorkdayChecker
}

func NewService(repo Repository, guard MonthGuard, workdays WorkdayChecker) *Service {
	return &Service{repo: repo, guard: guard, workdays: workdays}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	month := calendar.MonthOf(params.Date)
	if err := s.guard.CheckEditable(ctx, params.EmployeeID, month, nil); err != nil {
		return nil, err
	}

	e := params.toEntry()
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	if err := s.guard.Bump(ctx, params.EmployeeID, month); err != nil {
		return nil, fmt.Errorf("bumping month version: %w", err)
	}

	return e, nil
}

// CreateRange creates one entry per workday between params.Date and to, inclusive.
func (s *Service) CreateRange(ctx context.Context, params CreateParams, to time.Time) ([]*Entry, error) {
	from := calendar.Truncate(params.Date)
	to = calendar.Truncate(to)

	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s before start %s", ErrInvalidEntry,
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	if to.After(from.AddDate(0, 0, MaxRangeDays-1)) {
		return nil, fmt.Errorf("%w: range %s to %s exceeds %d days", ErrInvalidEntry,
			from.Format(time.DateOnly), to.Format(time.DateOnly), MaxRangeDays)
	}

	var batch []CreateParams

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !s.workdays.IsWorkday(d) {
			continue
		}

		p := params
		p.Date = d
		batch = append(batch, p)
	}

	if len(batch) == 0 {
		return nil, ErrEmptyRange
	}

	return s.CreateBatch(ctx, batch)
}

func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	months := affectedMonths(params)
	if err := s.checkEditable(ctx, months); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	entries := paramsToEntries(params)
	if err := itx.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	if err := s.bump(ctx, months); err != nil {
		return nil, err
	}

	return entries, nil
}

// ReplaceDay swaps the whole entry set of one employee's day. An empty set
// clears the day. expectedVersion, when set, must match the month version.
func (s *Service) ReplaceDay(
	ctx context.Context,
	employeeID uuid.UUID,
	date time.Time,
	params []CreateParams,
	expectedVersion *int64,
) ([]*Entry, error) {
	day := calendar.Truncate(date)

	for i := range params {
		params[i].EmployeeID = employeeID
		params[i].Date = day

		if err := params[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	month := calendar.MonthOf(day)
	if err := s.guard.CheckEditable(ctx, employeeID, month, expectedVersion); err != nil {
		return nil, err
	}

	entries := paramsToEntries(params)
	if err := s.repo.ReplaceDay(ctx, employeeID, day, entries); err != nil {
		return nil, err
	}

	if err := s.guard.Bump(ctx, employeeID, month); err != nil {
		return nil, fmt.Errorf("bumping month version: %w", err)
	}

	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.CheckEditable(ctx, e.EmployeeID, e.Month(), nil); err != nil {
		return err
	}

	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}

	if err := s.guard.Bump(ctx, e.EmployeeID, e.Month()); err != nil {
		return fmt.Errorf("bumping month version: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func (s *Service) ListMonth(ctx context.Context, employeeID uuid.UUID, m calendar.Month) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, MonthFilter(employeeID, m))
}

// Last returns the employee's most recently created entry, for "copy last".
func (s *Service) Last(ctx context.Context, employeeID uuid.UUID) (*Entry, error) {
	return s.repo.LastEntry(ctx, employeeID)
}

type ImportResult struct {
	Imported  []*Entry
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Entry
}

type dupKey struct {
	EmployeeID  uuid.UUID
	Date        string
	Type        WorkType
	Project     string
	Hours       float64
	Description string
}

func keyOf(employeeID uuid.UUID, date time.Time, t WorkType, project string, hours float64, desc string) dupKey {
	return dupKey{
		EmployeeID:  employeeID,
		Date:        date.Format(time.DateOnly),
		Type:        t,
		Project:     project,
		Hours:       hours,
		Description: desc,
	}
}

// duplicateKey identifies entries that describe the same reported time.
func (e *Entry) duplicateKey() dupKey {
	return keyOf(e.EmployeeID, e.Date, e.Type, e.Project, e.Hours, e.Description)
}

func (p CreateParams) duplicateKey() dupKey {
	n := p.Normalize()
	return keyOf(n.EmployeeID, n.Date, n.Type, n.Project, n.Hours, n.Description)
}

// IsDuplicateOf reports whether params describe the same time as an existing entry.
func (p CreateParams) IsDuplicateOf(e *Entry) bool {
	return p.duplicateKey() == e.duplicateKey()
}

// ImportBatch stores imported entries unless some duplicate existing ones, in
// which case nothing is stored and the conflicts are returned for review.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	months := affectedMonths(params)
	if err := s.checkEditable(ctx, months); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Entry, len(duplicates))
	for _, d := range duplicates {
		lookup[d.duplicateKey()] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[p.duplicateKey()]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	entries := paramsToEntries(newParams)
	if err := itx.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	if err := s.bump(ctx, months); err != nil {
		return nil, err
	}

	return &ImportResult{Imported: entries}, nil
}

type employeeMonth struct {
	EmployeeID uuid.UUID
	Month      calendar.Month
}

func affectedMonths(params []CreateParams) []employeeMonth {
	seen := make(map[employeeMonth]struct{})

	var out []employeeMonth

	for _, p := range params {
		k := employeeMonth{EmployeeID: p.EmployeeID, Month: calendar.MonthOf(p.Date)}
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, k)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month.String() < out[j].Month.String()
		}

		return out[i].EmployeeID.String() < out[j].EmployeeID.String()
	})

	return out
}

func (s *Service) checkEditable(ctx context.Context, months []employeeMonth) error {
	for _, m := range months {
		if err := s.guard.CheckEditable(ctx, m.EmployeeID, m.Month, nil); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) bump(ctx context.Context, months []employeeMonth) error {
	for _, m := range months {
		if err := s.guard.Bump(ctx, m.EmployeeID, m.Month); err != nil {
			return fmt.Errorf("bumping month version: %w", err)
		}
	}

	return nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return calendar.Truncate(minDate), calendar.Truncate(maxDate)
}

func paramsToEntries(params []CreateParams) []*Entry {
	entries := make([]*Entry, len(params))
	for i, p := range params {
		entries[i] = p.toEntry()
	}

	return entries
}
