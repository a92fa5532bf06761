package kv

import (
	"context"
	"sync"
)

type Memory struct {
	mu   sync.Mutex
	data map[string]Item
}

func NewMemory() *Memory {
	return &Memory{data: map[string]Item{}}
}

func (m *Memory) Get(ctx context.Context, key string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.data[key]
	if !ok {
		return Item{}, ErrNotFound
	}
	return Item{Value: append([]byte(nil), it.Value...), Version: it.Version}, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.data[key]
	if cur.Version != expectVersion {
		return 0, ErrConflict
	}
	next := expectVersion + 1
	m.data[key] = Item{Value: append([]byte(nil), value...), Version: next}
	return next, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
