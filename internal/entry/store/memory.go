package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dochazka/internal/calendar"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

// Memory keeps entries in process. Imports are serialized by importMu and
// staged until Commit.
type Memory struct {
	mu       sync.RWMutex
	importMu sync.Mutex
	entries  map[uuid.UUID]*entry.Entry
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[uuid.UUID]*entry.Entry),
		now:     time.Now,
	}
}

func (m *Memory) store(e *entry.Entry) {
	e.ID = uuid.New()
	e.CreatedAt = m.now()
	e.Date = calendar.Truncate(e.Date)

	clone := *e
	m.entries[e.ID] = &clone
}

func (m *Memory) CreateEntry(_ context.Context, e *entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store(e)

	return nil
}

func (m *Memory) GetEntry(_ context.Context, id uuid.UUID) (*entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, entry.ErrNotFound
	}

	clone := *e

	return &clone, nil
}

func (m *Memory) ListEntries(_ context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.list(filter), nil
}

func (m *Memory) list(filter entry.ListFilter) []*entry.Entry {
	var out []*entry.Entry

	for _, e := range m.entries {
		if !filter.Matches(e) {
			continue
		}

		clone := *e
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}

		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}

func (m *Memory) ReplaceDay(_ context.Context, employeeID uuid.UUID, date time.Time, entries []*entry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := calendar.Truncate(date)

	for id, e := range m.entries {
		if e.EmployeeID == employeeID && e.Date.Equal(day) {
			delete(m.entries, id)
		}
	}

	for _, e := range entries {
		m.store(e)
	}

	return nil
}

func (m *Memory) DeleteEntry(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return entry.ErrNotFound
	}

	delete(m.entries, id)

	return nil
}

func (m *Memory) LastEntry(_ context.Context, employeeID uuid.UUID) (*entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last *entry.Entry

	for _, e := range m.entries {
		if e.EmployeeID != employeeID {
			continue
		}

		if last == nil || e.CreatedAt.After(last.CreatedAt) {
			last = e
		}
	}

	if last == nil {
		return nil, entry.ErrNotFound
	}

	clone := *last

	return &clone, nil
}

type memoryImport struct {
	m      *Memory
	staged []*entry.Entry
	done   bool
}

func (m *Memory) BeginImport(_ context.Context, _, _ time.Time) (entry.ImportTx, error) {
	m.importMu.Lock()
	return &memoryImport{m: m}, nil
}

func (t *memoryImport) FindDuplicates(_ context.Context, params []entry.CreateParams) ([]*entry.Entry, error) {
	t.m.mu.RLock()
	defer t.m.mu.RUnlock()

	var duplicates []*entry.Entry

	for _, e := range t.m.list(entry.ListFilter{}) {
		for _, p := range params {
			if p.IsDuplicateOf(e) {
				duplicates = append(duplicates, e)
				break
			}
		}
	}

	return duplicates, nil
}

func (t *memoryImport) CreateEntries(_ context.Context, entries []*entry.Entry) error {
	t.staged = append(t.staged, entries...)
	return nil
}

func (t *memoryImport) Commit() error {
	if t.done {
		return nil
	}

	t.m.mu.Lock()
	for _, e := range t.staged {
		t.m.store(e)
	}
	t.m.mu.Unlock()

	t.finish()

	return nil
}

func (t *memoryImport) Rollback() error {
	if t.done {
		return nil
	}

	t.staged = nil
	t.finish()

	return nil
}

func (t *memoryImport) finish() {
	t.done = true
	t.m.importMu.Unlock()
}
