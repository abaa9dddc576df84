package storage

import (
	"context"
	"sync"

	"github.com/user/lifesim/internal/types"
)

// MemoryStore keeps snapshots in process memory
type MemoryStore struct {
	lives map[string]*types.Life
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lives: make(map[string]*types.Life)}
}

// Get returns a copy of the stored snapshot
func (s *MemoryStore) Get(_ context.Context, id string) (*types.Life, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	life, ok := s.lives[id]
	if !ok {
		return nil, ErrNotFound
	}
	return life.Clone(), nil
}

// Put stores a copy of the snapshot
func (s *MemoryStore) Put(_ context.Context, life *types.Life) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lives[life.ID] = life.Clone()
	return nil
}

// Delete removes a snapshot
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lives[id]; !ok {
		return ErrNotFound
	}
	delete(s.lives, id)
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error { return nil }
