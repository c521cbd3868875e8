package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/status"
)

type key struct {
	employeeID uuid.UUID
	month      calendar.Month
}

// Memory keeps one status record per (employee, month).
type Memory struct {
	mu       sync.Mutex
	statuses map[key]status.MonthStatus
	viewed   map[uuid.UUID]calendar.Month
}

func NewMemory() *Memory {
	return &Memory{
		statuses: make(map[key]status.MonthStatus),
		viewed:   make(map[uuid.UUID]calendar.Month),
	}
}

func (m *Memory) GetStatus(_ context.Context, employeeID uuid.UUID, month calendar.Month) (*status.MonthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.statuses[key{employeeID, month}]
	if !ok {
		return nil, status.ErrNotFound
	}

	return &st, nil
}

func (m *Memory) SaveStatus(_ context.Context, st *status.MonthStatus, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{st.EmployeeID, st.Month}

	var current int64
	if stored, ok := m.statuses[k]; ok {
		current = stored.Version
	}

	if current != expectedVersion {
		return status.ErrVersionConflict
	}

	m.statuses[k] = *st

	return nil
}

func (m *Memory) BumpVersion(_ context.Context, employeeID uuid.UUID, month calendar.Month) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{employeeID, month}

	st, ok := m.statuses[k]
	if !ok {
		st = status.Draft(employeeID, month)
	}

	st.Version++
	st.UpdatedAt = time.Now()
	m.statuses[k] = st

	return st.Version, nil
}

func (m *Memory) ListStatuses(_ context.Context, month calendar.Month) ([]*status.MonthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*status.MonthStatus

	for k, st := range m.statuses {
		if k.month != month {
			continue
		}

		clone := st
		out = append(out, &clone)
	}

	return out, nil
}

func (m *Memory) LastViewed(_ context.Context, employeeID uuid.UUID) (calendar.Month, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	month, ok := m.viewed[employeeID]
	if !ok {
		return calendar.Month{}, status.ErrNotFound
	}

	return month, nil
}

func (m *Memory) SetLastViewed(_ context.Context, employeeID uuid.UUID, month calendar.Month) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viewed[employeeID] = month

	return nil
}
