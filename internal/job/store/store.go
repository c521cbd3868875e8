package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/dochazka/internal/job"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*job.Job, error) {
	var j job.Job
	if err := s.Scan(&j.ID, &j.Code, &j.Name, &j.Active, &j.CreatedAt); err != nil {
		return nil, err
	}

	return &j, nil
}

func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (code, name, active, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, j.Code, j.Name, j.Active).Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", job.ErrDuplicate, j.Code)
		}

		return fmt.Errorf("creating job: %w", err)
	}

	return nil
}

func (s *Store) ListJobs(ctx context.Context, activeOnly bool) ([]*job.Job, error) {
	query := `SELECT id, code, name, active, created_at FROM jobs`
	if activeOnly {
		query += ` WHERE active`
	}

	query += ` ORDER BY code ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Job

	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}

	return jobs, nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return job.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return job.ErrNotFound
	}

	return nil
}

func (s *Store) FindMatch(ctx context.Context, raw string) (*job.Job, error) {
	query := `
		SELECT id, code, name, active, created_at
		FROM jobs
		WHERE active AND (
			$1 ILIKE '%' || code || '%'
			OR $1 ILIKE '%' || name || '%'
			OR name ILIKE '%' || $1 || '%'
		)
		ORDER BY LENGTH(name) DESC, created_at DESC
		LIMIT 1
	`

	j, err := scanJob(s.db.QueryRowContext(ctx, query, raw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding job match: %w", err)
	}

	return j, nil
}
