package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectStatusColumns = `
	employee_id, month, status, manager_comment, submitted_at, approved_at, version, updated_at
`

func scanStatus(s scanner) (*status.MonthStatus, error) {
	var st status.MonthStatus

	var monthKey, statusStr string

	if err := s.Scan(
		&st.EmployeeID, &monthKey, &statusStr, &st.ManagerComment,
		&st.SubmittedAt, &st.ApprovedAt, &st.Version, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m, err := calendar.ParseMonth(monthKey)
	if err != nil {
		return nil, fmt.Errorf("parsing stored month: %w", err)
	}

	st.Month = m
	st.Status = status.Status(statusStr)

	return &st, nil
}

func (s *Store) GetStatus(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (*status.MonthStatus, error) {
	query := `SELECT ` + selectStatusColumns + ` FROM month_statuses WHERE employee_id = $1 AND month = $2`

	st, err := scanStatus(s.db.QueryRowContext(ctx, query, employeeID, month.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}

		return nil, fmt.Errorf("getting month status: %w", err)
	}

	return st, nil
}

func (s *Store) SaveStatus(ctx context.Context, st *status.MonthStatus, expectedVersion int64) error {
	var query string

	if expectedVersion == 0 {
		query = `
			INSERT INTO month_statuses (employee_id, month, status, manager_comment, submitted_at, approved_at, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (employee_id, month) DO UPDATE
			SET status = EXCLUDED.status, manager_comment = EXCLUDED.manager_comment,
				submitted_at = EXCLUDED.submitted_at, approved_at = EXCLUDED.approved_at,
				version = EXCLUDED.version, updated_at = NOW()
			WHERE month_statuses.version = $8
		`
	} else {
		query = `
			UPDATE month_statuses
			SET status = $3, manager_comment = $4, submitted_at = $5, approved_at = $6, version = $7, updated_at = NOW()
			WHERE employee_id = $1 AND month = $2 AND version = $8
		`
	}

	res, err := s.db.ExecContext(ctx, query,
		st.EmployeeID,
		st.Month.String(),
		st.Status,
		st.ManagerComment,
		st.SubmittedAt,
		st.ApprovedAt,
		st.Version,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("saving month status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving month status: %w", err)
	}

	if n == 0 {
		return status.ErrVersionConflict
	}

	return nil
}

func (s *Store) BumpVersion(ctx context.Context, employeeID uuid.UUID, month calendar.Month) (int64, error) {
	query := `
		INSERT INTO month_statuses (employee_id, month, status, version, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (employee_id, month) DO UPDATE
		SET version = month_statuses.version + 1, updated_at = NOW()
		RETURNING version
	`

	var version int64
	if err := s.db.QueryRowContext(ctx, query, employeeID, month.String(), status.StatusDraft).Scan(&version); err != nil {
		return 0, fmt.Errorf("bumping month version: %w", err)
	}

	return version, nil
}

func (s *Store) ListStatuses(ctx context.Context, month calendar.Month) ([]*status.MonthStatus, error) {
	query := `SELECT ` + selectStatusColumns + ` FROM month_statuses WHERE month = $1`

	rows, err := s.db.QueryContext(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("listing month statuses: %w", err)
	}
	defer rows.Close()

	var out []*status.MonthStatus

	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning month status: %w", err)
		}

		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating month status rows: %w", err)
	}

	return out, nil
}

func (s *Store) LastViewed(ctx context.Context, employeeID uuid.UUID) (calendar.Month, error) {
	var key string

	err := s.db.QueryRowContext(ctx,
		`SELECT month FROM viewed_months WHERE employee_id = $1`, employeeID,
	).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calendar.Month{}, status.ErrNotFound
		}

		return calendar.Month{}, fmt.Errorf("getting last viewed month: %w", err)
	}

	return calendar.ParseMonth(key)
}

func (s *Store) SetLastViewed(ctx context.Context, employeeID uuid.UUID, month calendar.Month) error {
	query := `
		INSERT INTO viewed_months (employee_id, month) VALUES ($1, $2)
		ON CONFLICT (employee_id) DO UPDATE SET month = EXCLUDED.month
	`

	if _, err := s.db.ExecContext(ctx, query, employeeID, month.String()); err != nil {
		return fmt.Errorf("recording viewed month: %w", err)
	}

	return nil
}
