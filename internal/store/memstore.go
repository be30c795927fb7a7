package store

import (
	"context"
	"fmt"
	"sync"

	"calcnerd/internal/history"

	"github.com/google/uuid"
)

// MemStore is an in-process store used for --ephemeral sessions and tests.
// Nothing survives the process.
type MemStore struct {
	mu       sync.RWMutex
	entries  []history.Entry
	settings map[string]string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{settings: make(map[string]string)}
}

func (m *MemStore) AppendHistory(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemStore) ListHistory(_ context.Context) ([]history.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.entries) == 0 {
		return nil, nil
	}
	out := make([]history.Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemStore) GetHistory(_ context.Context, id uuid.UUID) (history.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return history.Entry{}, fmt.Errorf("%s: %w", id, history.ErrNotFound)
}

func (m *MemStore) TrimHistory(_ context.Context, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	excess := len(m.entries) - limit
	if excess <= 0 {
		return 0, nil
	}
	m.entries = append([]history.Entry(nil), m.entries[excess:]...)
	return excess, nil
}

func (m *MemStore) ClearHistory(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *MemStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *MemStore) PutSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// Close is a no-op.
func (m *MemStore) Close() error { return nil }
