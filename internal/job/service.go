package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("job not found")
	ErrInvalidJob = errors.New("invalid job")
	ErrDuplicate  = errors.New("job code already exists")
)

// Job is a catalog project that entries are booked against.
type Job struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
}

type Repository interface {
	CreateJob(ctx context.Context, j *Job) error
	ListJobs(ctx context.Context, activeOnly bool) ([]*Job, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	// FindMatch returns the active job whose code or name best matches raw,
	// or nil when none does.
	FindMatch(ctx context.Context, raw string) (*Job, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, code, name string) (*Job, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", ErrInvalidJob)
	}

	j := &Job{Code: code, Name: name, Active: true}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}

	return j, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Job, error) {
	return s.repo.ListJobs(ctx, activeOnly)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteJob(ctx, id)
}

// Resolve maps free text such as an AI-parsed project to a catalog job.
// Returns nil if nothing matches.
func (s *Service) Resolve(ctx context.Context, raw string) (*Job, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, raw)
}

// ProjectName returns the catalog name for raw, or fallback when unresolved.
func (s *Service) ProjectName(ctx context.Context, raw, fallback string) (string, error) {
	j, err := s.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}

	if j != nil {
		return j.Name, nil
	}

	if raw = strings.TrimSpace(raw); raw != "" {
		return raw, nil
	}

	return fallback, nil
}
