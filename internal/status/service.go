package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=status
type Repository interface {
	// GetStatus returns ErrNotFound for a month that was never stored.
	GetStatus(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (*MonthStatus, error)
	// SaveStatus stores s if the stored version still equals expectedVersion
	// (zero for an unstored month), otherwise ErrVersionConflict.
	SaveStatus(ctx context.Context, s *MonthStatus, expectedVersion int64) error
	BumpVersion(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (int64, error)
	ListStatuses(ctx context.Context, month calendar.Month) ([]*MonthStatus, error)

	LastViewed(ctx context.Context, employeeID uuid.UUID) (calendar.Month, error)
	SetLastViewed(ctx context.Context, employeeID uuid.UUID, month calendar.Month) error
}

type EntryLister interface {
	ListEntries(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error)
}

type MonthValidator interface {
	Validate(entries []*entry.Entry, m calendar.Month, referenceDate time.Time) []validation.Issue
}

type Policy struct {
	BlockSubmitOnErrors      bool
	ResetStatusOnUnseenMonth bool
}

type Service struct {
	repo      Repository
	entries   EntryLister
	validator MonthValidator
	policy    Policy
	now       func() time.Time
}

func NewService(repo Repository, entries EntryLister, validator MonthValidator, policy Policy) *Service {
	return &Service{
		repo:      repo,
		entries:   entries,
		validator: validator,
		policy:    policy,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock used as the validation reference date
// and transition timestamp.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the stored status or an implicit draft.
func (s *Service) Get(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (*MonthStatus, error) {
	st, err := s.repo.GetStatus(ctx, employeeID, month)
	if errors.Is(err, ErrNotFound) {
		d := Draft(employeeID, month)
		return &d, nil
	}

	if err != nil {
		return nil, fmt.Errorf("getting month status: %w", err)
	}

	return st, nil
}

// Current returns the status of the month the employee is viewing. With
// ResetStatusOnUnseenMonth, moving to a different month resets it to draft.
func (s *Service) Current(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (*MonthStatus, error) {
	st, err := s.Get(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}

	if !s.policy.ResetStatusOnUnseenMonth {
		return st, nil
	}

	last, err := s.repo.LastViewed(ctx, employeeID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting last viewed month: %w", err)
	}

	if err == nil && last != month && st.Status != StatusDraft {
		reset := Draft(employeeID, month)
		reset.Version = st.Version + 1
		reset.UpdatedAt = s.now()

		if err := s.repo.SaveStatus(ctx, &reset, st.Version); err != nil {
			return nil, fmt.Errorf("resetting month status: %w", err)
		}

		st = &reset
	}

	if err := s.repo.SetLastViewed(ctx, employeeID, month); err != nil {
		return nil, fmt.Errorf("recording viewed month: %w", err)
	}

	return st, nil
}

// Issues validates the month's entries against the current date.
func (s *Service) Issues(ctx context.Context, employeeID uuid.UUID, month calendar.Month) ([]validation.Issue, error) {
	entries, err := s.entries.ListEntries(ctx, entry.MonthFilter(employeeID, month))
	if err != nil {
		return nil, fmt.Errorf("listing month entries: %w", err)
	}

	return s.validator.Validate(entries, month, s.now()), nil
}

// Submit validates the month and moves it to submitted. Issues are returned
// with either outcome. A month that cannot be submitted from its current
// status fails with ErrInvalidTransition before any validation.
func (s *Service) Submit(ctx context.Context, employeeID uuid.UUID, month calendar.Month, actor Role) (*MonthStatus, []validation.Issue, error) {
	cur, err := s.Get(ctx, employeeID, month)
	if err != nil {
		return nil, nil, err
	}

	if err := ValidateTransition(cur.Status, StatusSubmitted, actor, ""); err != nil {
		return nil, nil, err
	}

	issues, err := s.Issues(ctx, employeeID, month)
	if err != nil {
		return nil, nil, err
	}

	if s.policy.BlockSubmitOnErrors {
		if errs := validation.Errors(issues); len(errs) > 0 {
			return nil, issues, &SubmissionBlockedError{Issues: errs}
		}
	}

	st, err := s.transition(ctx, employeeID, month, StatusSubmitted, "", actor)
	if err != nil {
		return nil, issues, err
	}

	return st, issues, nil
}

func (s *Service) Approve(ctx context.Context, employeeID uuid.UUID, month calendar.Month, comment string, actor Role) (*MonthStatus, error) {
	return s.transition(ctx, employeeID, month, StatusApproved, comment, actor)
}

func (s *Service) Reject(ctx context.Context, employeeID uuid.UUID, month calendar.Month, comment string, actor Role) (*MonthStatus, error) {
	return s.transition(ctx, employeeID, month, StatusRejected, comment, actor)
}

// Reopen returns a rejected month to draft for editing.
func (s *Service) Reopen(ctx context.Context, employeeID uuid.UUID, month calendar.Month, actor Role) (*MonthStatus, error) {
	return s.transition(ctx, employeeID, month, StatusDraft, "", actor)
}

// Transition dispatches a requested target status to the matching operation.
func (s *Service) Transition(
	ctx context.Context,
	employeeID uuid.UUID,
	month calendar.Month,
	to Status,
	comment string,
	actor Role,
) (*MonthStatus, []validation.Issue, error) {
	if to == StatusSubmitted {
		return s.Submit(ctx, employeeID, month, actor)
	}

	st, err := s.transition(ctx, employeeID, month, to, comment, actor)

	return st, nil, err
}

func (s *Service) transition(
	ctx context.Context,
	employeeID uuid.UUID,
	month calendar.Month,
	to Status,
	comment string,
	actor Role,
) (*MonthStatus, error) {
	cur, err := s.Get(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}

	next, err := UpdateStatus(*cur, to, comment, actor, s.now())
	if err != nil {
		return nil, err
	}

	next.Version = cur.Version + 1

	if err := s.repo.SaveStatus(ctx, &next, cur.Version); err != nil {
		return nil, fmt.Errorf("saving month status: %w", err)
	}

	return &next, nil
}

// CheckEditable rejects entry mutations of locked months and of months whose
// version moved past expectedVersion.
func (s *Service) CheckEditable(ctx context.Context, employeeID uuid.UUID, month calendar.Month, expectedVersion *int64) error {
	cur, err := s.Get(ctx, employeeID, month)
	if err != nil {
		return err
	}

	if cur.Locked() {
		return fmt.Errorf("%w: %s is %s", ErrLocked, month, cur.Status)
	}

	if expectedVersion != nil && *expectedVersion != cur.Version {
		return fmt.Errorf("%w: expected version %d, current %d", ErrVersionConflict, *expectedVersion, cur.Version)
	}

	return nil
}

func (s *Service) Bump(ctx context.Context, employeeID uuid.UUID, month calendar.Month) error {
	_, err := s.repo.BumpVersion(ctx, employeeID, month)
	return err
}

// List returns every stored status of the month.
func (s *Service) List(ctx context.Context, month calendar.Month) ([]*MonthStatus, error) {
	return s.repo.ListStatuses(ctx, month)
}
