package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Expected column order: id, employee_id, date, project, description, hours, type, created_at, updated_at
func scanEntry(s scanner) (*entry.Entry, error) {
	var e entry.Entry

	var typeStr string

	if err := s.Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.Project, &e.Description, &e.Hours, &typeStr,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = entry.WorkType(typeStr)
	e.Date = e.Date.UTC()

	return &e, nil
}

const selectEntryColumns = `
	id, employee_id, date, project, description, hours, type, created_at, updated_at
`

const insertEntry = `
	INSERT INTO entries (employee_id, date, project, description, hours, type, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING id, created_at
`

func insert(ctx context.Context, q queryer, e *entry.Entry) error {
	return q.QueryRowContext(ctx, insertEntry,
		e.EmployeeID,
		e.Date,
		e.Project,
		e.Description,
		e.Hours,
		e.Type,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *Store) CreateEntry(ctx context.Context, e *entry.Entry) error {
	if err := insert(ctx, s.db, e); err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM entries WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entry.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	return listEntries(ctx, s.db, filter)
}

func listEntries(ctx context.Context, q queryer, filter entry.ListFilter) ([]*entry.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM entries WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)

		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Project != nil {
		query += fmt.Sprintf(" AND project = $%d", argIdx)

		args = append(args, *filter.Project)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}

	return entries, nil
}

// ReplaceDay deletes the day's entries and inserts the new set in one transaction.
func (s *Store) ReplaceDay(ctx context.Context, employeeID uuid.UUID, date time.Time, entries []*entry.Entry) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM entries WHERE employee_id = $1 AND date = $2`, employeeID, date,
	); err != nil {
		return fmt.Errorf("clearing day: %w", err)
	}

	for _, e := range entries {
		if err := insert(ctx, dbTx, e); err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	if n == 0 {
		return entry.ErrNotFound
	}

	return nil
}

func (s *Store) LastEntry(ctx context.Context, employeeID uuid.UUID) (*entry.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM entries
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entry.ErrNotFound
		}

		return nil, fmt.Errorf("getting last entry: %w", err)
	}

	return e, nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction serialized against other imports of the
// same date range by a transaction-scoped advisory lock.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (entry.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error { return itx.tx.Commit() }

func (itx *importTx) Rollback() error {
	if err := itx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (itx *importTx) FindDuplicates(ctx context.Context, params []entry.CreateParams) ([]*entry.Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	start, end := minDate.UTC(), maxDate.UTC()

	existing, err := listEntries(ctx, itx.tx, entry.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	var duplicates []*entry.Entry

	for _, e := range existing {
		for _, p := range params {
			if p.IsDuplicateOf(e) {
				duplicates = append(duplicates, e)
				break
			}
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateEntries(ctx context.Context, entries []*entry.Entry) error {
	for _, e := range entries {
		if err := insert(ctx, itx.tx, e); err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}

	return nil
}
