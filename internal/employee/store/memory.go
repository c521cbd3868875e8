package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/employee"
)

type Memory struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]employee.Employee
}

func NewMemory() *Memory {
	return &Memory{employees: make(map[uuid.UUID]employee.Employee)}
}

func (m *Memory) CreateEmployee(_ context.Context, e *employee.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.employees[e.ID] = *e

	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id uuid.UUID) (*employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrNotFound
	}

	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]*employee.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		clone := e
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[id]; !ok {
		return employee.ErrNotFound
	}

	delete(m.employees, id)

	return nil
}
