// Package status tracks the approval state of an employee's month and decides
// whether its entries may change.
package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/validation"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}

	return false
}

// Role is a trusted client flag, not an authenticated identity.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

var (
	ErrNotFound          = errors.New("month status not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCommentRequired   = errors.New("manager comment is required")
	ErrForbidden         = errors.New("action requires manager role")
	ErrLocked            = errors.New("month is locked")
	ErrVersionConflict   = errors.New("month was modified by another session")
)

// SubmissionBlockedError is returned when a month with error-severity issues
// is submitted while blocking is enabled.
type SubmissionBlockedError struct {
	Issues []validation.Issue
}

func (e *SubmissionBlockedError) Error() string {
	return fmt.Sprintf("submission blocked by %d validation error(s)", len(e.Issues))
}

type MonthStatus struct {
	EmployeeID     uuid.UUID
	Month          calendar.Month
	Status         Status
	ManagerComment string
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	// Version increases with every entry mutation and status change.
	Version   int64
	UpdatedAt time.Time
}

// Draft is the implicit status of a month nobody has touched yet.
func Draft(employeeID uuid.UUID, month calendar.Month) MonthStatus {
	return MonthStatus{EmployeeID: employeeID, Month: month, Status: StatusDraft}
}

// Locked reports whether entry mutations are rejected.
func (s MonthStatus) Locked() bool {
	return s.Status == StatusSubmitted || s.Status == StatusApproved
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusRejected:  {StatusDraft, StatusSubmitted},
}

func managerOnly(to Status) bool {
	return to == StatusApproved || to == StatusRejected
}

// ValidateTransition checks a move between two states for the given actor.
func ValidateTransition(from, to Status, actor Role, comment string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	allowed := false

	for _, s := range transitions[from] {
		if s == to {
			allowed = true
			break
		}
	}

	if !allowed {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	if managerOnly(to) && actor != RoleManager {
		return fmt.Errorf("%w: %s", ErrForbidden, to)
	}

	if to == StatusRejected && strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}

	return nil
}

// UpdateStatus applies a transition to current and returns the new record.
// An empty comment keeps the previous one. Timestamps are set on every entry
// into submitted or approved.
func UpdateStatus(current MonthStatus, to Status, comment string, actor Role, now time.Time) (MonthStatus, error) {
	if err := ValidateTransition(current.Status, to, actor, comment); err != nil {
		return current, err
	}

	next := current
	next.Status = to
	next.UpdatedAt = now

	if c := strings.TrimSpace(comment); c != "" {
		next.ManagerComment = c
	}

	switch to {
	case StatusSubmitted:
		next.SubmittedAt = &now
	case StatusApproved:
		next.ApprovedAt = &now
	}

	return next, nil
}
