package kv

import (
	"context"
	"sync"
)

// Memory is the in-process backend used outside production.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory constructs a memory backend pre-loaded with seed.
func NewMemory(seed map[string][]byte) *Memory {
	m := &Memory{data: make(map[string][]byte, len(seed))}
	for key, value := range seed {
		m.data[key] = append([]byte(nil), value...)
	}
	return m
}

// Get returns the stored value or fallback when the key is absent.
func (m *Memory) Get(_ context.Context, key string, fallback []byte) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return fallback
	}
	return append([]byte(nil), value...)
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// Name identifies the backend.
func (m *Memory) Name() string { return "memory" }

var _ Backend = (*Memory)(nil)
