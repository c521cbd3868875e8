package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/employee"
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

func scanEmployee(s scanner) (*employee.Employee, error) {
	var e employee.Employee

	var role string

	if err := s.Scan(&e.ID, &e.Name, &role, &e.Email, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.Role = status.Role(role)

	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *employee.Employee) error {
	query := `
		INSERT INTO employees (name, role, email, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, e.Name, e.Role, e.Email).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}

	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	query := `SELECT id, name, role, email, created_at FROM employees WHERE id = $1`

	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrNotFound
		}

		return nil, fmt.Errorf("getting employee: %w", err)
	}

	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, role, email, created_at FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []*employee.Employee

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employee rows: %w", err)
	}

	return out, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	if n == 0 {
		return employee.ErrNotFound
	}

	return nil
}
