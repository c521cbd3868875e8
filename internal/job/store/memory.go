package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/job"
)

type Memory struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]job.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[uuid.UUID]job.Job)}
}

func (m *Memory) CreateJob(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.jobs {
		if strings.EqualFold(existing.Code, j.Code) {
			return fmt.Errorf("%w: %s", job.ErrDuplicate, j.Code)
		}
	}

	j.ID = uuid.New()
	j.CreatedAt = time.Now()
	m.jobs[j.ID] = *j

	return nil
}

func (m *Memory) ListJobs(_ context.Context, activeOnly bool) ([]*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*job.Job

	for _, j := range m.jobs {
		if activeOnly && !j.Active {
			continue
		}

		clone := j
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, k int) bool { return out[i].Code < out[k].Code })

	return out, nil
}

func (m *Memory) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return job.ErrNotFound
	}

	j.Active = active
	m.jobs[id] = j

	return nil
}

func (m *Memory) DeleteJob(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return job.ErrNotFound
	}

	delete(m.jobs, id)

	return nil
}

// FindMatch mirrors the postgres query: case-insensitive containment either
// way, longest name first.
func (m *Memory) FindMatch(_ context.Context, raw string) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(raw)

	var best *job.Job

	for _, j := range m.jobs {
		if !j.Active {
			continue
		}

		code, name := strings.ToLower(j.Code), strings.ToLower(j.Name)
		if !strings.Contains(needle, code) && !strings.Contains(needle, name) && !strings.Contains(name, needle) {
			continue
		}

		if best == nil || len(j.Name) > len(best.Name) ||
			(len(j.Name) == len(best.Name) && j.CreatedAt.After(best.CreatedAt)) {
			clone := j
			best = &clone
		}
	}

	return best, nil
}
