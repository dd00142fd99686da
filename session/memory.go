package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the bundle in process memory. Used by tests and the
// "memory" backend, where a session lives only as long as the command.
type MemoryStore struct {
	mu sync.RWMutex
	b  Bundle
}

// NewMemoryStore returns a store seeded with b.
func NewMemoryStore(b Bundle) *MemoryStore {
	return &MemoryStore{b: b.clone()}
}

func (m *MemoryStore) Load(_ context.Context) (Bundle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.b.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, b Bundle) error {
	m.mu.Lock()
	m.b = b.clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.b = Bundle{}
	m.mu.Unlock()
	return nil
}
