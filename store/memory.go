package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps the ledger state in a process-local map. It is the
// default backend and the one the engine tests run against.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
}

func (m *MemoryStore) Contains(_ context.Context, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[key]
	return ok
}

func (m *MemoryStore) Swap(_ context.Context, keyA, keyB string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	va, okA := m.data[keyA]
	vb, okB := m.data[keyB]

	if okB {
		m.data[keyA] = vb
	} else {
		delete(m.data, keyA)
	}
	if okA {
		m.data[keyB] = va
	} else {
		delete(m.data, keyB)
	}
}

func (m *MemoryStore) KeysWithPrefix(_ context.Context, prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
