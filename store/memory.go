package store

import (
	"context"
	"slices"
	"sync"

	"github.com/arloliu/rolepref/types"
)

// MemoryStorage is a map-backed types.RecordStorage.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Compile-time assertion that MemoryStorage implements RecordStorage.
var _ types.RecordStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Load implements types.RecordStorage.
func (m *MemoryStorage) Load(_ context.Context, identity string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[identity]
	if !ok {
		return nil, types.ErrRecordNotFound
	}

	return slices.Clone(data), nil
}

// Save implements types.RecordStorage.
func (m *MemoryStorage) Save(_ context.Context, identity string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[identity] = slices.Clone(data)

	return nil
}

// Delete implements types.RecordStorage.
func (m *MemoryStorage) Delete(_ context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, identity)

	return nil
}

// List implements types.RecordStorage.
func (m *MemoryStorage) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids, nil
}
