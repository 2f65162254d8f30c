package store

import (
	"context"
	"sync"

	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
)

// Memory implementa os dois níveis do Store em mapas, para testes.
type Memory struct {
	mu         sync.RWMutex
	instance   map[string][]byte
	persistent map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		instance:   make(map[string][]byte),
		persistent: make(map[string][]byte),
	}
}

func (m *Memory) InstanceGet(_ context.Context, k engine.DataKey) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.instance[k.String()]
	return clone(v), ok, nil
}

func (m *Memory) InstanceSet(_ context.Context, k engine.DataKey, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instance[k.String()] = clone(val)
	return nil
}

func (m *Memory) InstanceHas(_ context.Context, k engine.DataKey) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.instance[k.String()]
	return ok, nil
}

func (m *Memory) PersistentGet(_ context.Context, k engine.DataKey) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.persistent[k.String()]
	return clone(v), ok, nil
}

func (m *Memory) PersistentSet(_ context.Context, k engine.DataKey, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistent[k.String()] = clone(val)
	return nil
}

func (m *Memory) PersistentHas(_ context.Context, k engine.DataKey) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.persistent[k.String()]
	return ok, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
