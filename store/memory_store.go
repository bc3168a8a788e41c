package store

import (
	"context"
	"sync"

	"url-triage-poc/model"
)

// MemoryStore keeps the state in RAM. Used by tests and by one-shot CLI
// runs that do not need persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	state  model.AppState
	closed bool
}

// NewMemoryStore creates a store holding the initial state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: model.InitialState()}
}

// NewMemoryStoreWith creates a store seeded with state.
func NewMemoryStoreWith(state model.AppState) *MemoryStore {
	return &MemoryStore{state: state.Clone()}
}

func (m *MemoryStore) State(ctx context.Context) (model.AppState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return model.AppState{}, ErrClosed
	}
	return m.state.Clone(), nil
}

func (m *MemoryStore) AddDataset(ctx context.Context, meta model.DatasetMetadata, records []model.DatasetEntry) error {
	return m.apply(addDataset(meta, records))
}

func (m *MemoryStore) UpdateLists(ctx context.Context, allowlist, blocklist []string) error {
	return m.apply(updateLists(allowlist, blocklist))
}

func (m *MemoryStore) SetSession(ctx context.Context, role model.UserRole, loggedIn bool) error {
	return m.apply(setSession(role, loggedIn))
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	return m.apply(func(s *model.AppState) { *s = model.InitialState() })
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryStore) apply(fn func(*model.AppState)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.state = mutate(m.state, fn)
	return nil
}
