package store

import (
	"context"
	"sync"
)

// MemoryStore holds sessions in process memory, the default backend.
// Keys live until the process exits; users set them again after a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	keys    map[int64]string
	pending map[int64]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:    make(map[int64]string),
		pending: make(map[int64]struct{}),
	}
}

func (s *MemoryStore) SetKey(_ context.Context, userID int64, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[userID] = apiKey
	return nil
}

func (s *MemoryStore) GetKey(_ context.Context, userID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[userID], nil
}

func (s *MemoryStore) DeleteKey(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, userID)
	return nil
}

func (s *MemoryStore) MarkPending(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = struct{}{}
	return nil
}

func (s *MemoryStore) ClearPending(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
	return nil
}

func (s *MemoryStore) IsPending(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[userID]
	return ok, nil
}
