package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Lookup used by tests and local tooling. Values are
// compared with ==, so callers must store the same types they query with.
type Memory struct {
	mu      sync.RWMutex
	records map[Collection]map[uuid.UUID]Record
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[Collection]map[uuid.UUID]Record)}
}

// Put inserts or replaces the record with the given id. The "id" column is
// set automatically.
func (m *Memory) Put(c Collection, id uuid.UUID, r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[c] == nil {
		m.records[c] = make(map[uuid.UUID]Record)
	}
	row := make(Record, len(r)+1)
	for k, v := range r {
		row[k] = v
	}
	row["id"] = id
	m.records[c][id] = row
}

// Delete removes a record.
func (m *Memory) Delete(c Collection, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records[c], id)
}

func (m *Memory) live(c Collection, r Record) bool {
	if !softDeleted[c] {
		return true
	}
	v, ok := r["deleted_at"]
	return !ok || v == nil
}

// Exists reports whether any live record of c matches p.
func (m *Memory) Exists(_ context.Context, c Collection, p Predicate) (bool, error) {
	if err := checkCollection(c); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, r := range m.records[c] {
		if p.ExcludeID != nil && id == *p.ExcludeID {
			continue
		}
		if !m.live(c, r) {
			continue
		}
		if matches(r, p.Filters) {
			return true, nil
		}
	}
	return false, nil
}

// Find returns a copy of the live record of c with the given id.
func (m *Memory) Find(_ context.Context, c Collection, id uuid.UUID) (Record, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[c][id]
	if !ok || !m.live(c, r) {
		return nil, ErrNotFound
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

func matches(r Record, filters []Filter) bool {
	for _, f := range filters {
		if r[f.Column] != f.Value {
			return false
		}
	}
	return true
}
