package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryKeyValueStorage is a process-local [KeyValueStorage] without batch
// support. Used by tests and by the client before a database is opened.
type MemoryKeyValueStorage struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemoryKeyValueStorage() *MemoryKeyValueStorage {
	return &MemoryKeyValueStorage{values: make(map[string]json.RawMessage)}
}

func (m *MemoryKeyValueStorage) Load(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append(json.RawMessage(nil), v...), nil
}

func (m *MemoryKeyValueStorage) Save(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append(json.RawMessage(nil), value...)
	return nil
}

func (m *MemoryKeyValueStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
