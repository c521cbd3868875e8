package employee

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/aggregate"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

var (
	ErrNotFound        = errors.New("employee not found")
	ErrInvalidEmployee = errors.New("invalid employee")
)

type Employee struct {
	ID        uuid.UUID
	Name      string
	Role      status.Role
	Email     string
	CreatedAt time.Time
}

type CreateParams struct {
	Name  string
	Role  status.Role
	Email string
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEmployee)
	}

	if !p.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidEmployee, p.Role)
	}

	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: email %q", ErrInvalidEmployee, p.Email)
		}
	}

	return nil
}

type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Employee, error) {
	if params.Role == "" {
		params.Role = status.RoleEmployee
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		Name:  strings.TrimSpace(params.Name),
		Role:  params.Role,
		Email: strings.TrimSpace(params.Email),
	}

	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEmployee(ctx, id)
}

// Names resolves employee IDs for aggregation.
func (s *Service) Names(ctx context.Context) (aggregate.NameResolver, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	names := make(aggregate.NameResolver, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	return names, nil
}
