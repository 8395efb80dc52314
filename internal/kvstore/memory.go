package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. Used for tests and throwaway sessions.
type MemoryStore struct {
	values map[string]string
	getErr error
	setErr error
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, exists := m.values[key]
	return value, exists, nil
}

// Set stores value under key
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// FailGets makes every Get return err until called again with nil
func (m *MemoryStore) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailSets makes every Set return err until called again with nil
func (m *MemoryStore) FailSets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}
