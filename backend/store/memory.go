package store

import (
	"context"
	"sync"
)

// MemoryStore keeps everything in process memory. It is the default store for
// local runs and tests.
type MemoryStore struct {
	notifier

	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(value), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	return s.SetMany(ctx, map[string][]byte{key: nil})
}

func (s *MemoryStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))

	s.mu.Lock()
	for key, value := range entries {
		if value == nil {
			delete(s.data, key)
		} else {
			s.data[key] = cloneBytes(value)
		}
		keys = append(keys, key)
	}
	s.mu.Unlock()

	s.notify(keys...)
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
