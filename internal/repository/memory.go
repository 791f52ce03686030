package repository

import (
	"context"
	"sync"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

var _ FieldConfigStore = (*MemoryStore)(nil)

// MemoryStore keeps records in a map. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[domain.InstanceKey]domain.FieldInstanceConfig
	saves   int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[domain.InstanceKey]domain.FieldInstanceConfig),
	}
}

// Get returns a copy of the stored record.
func (s *MemoryStore) Get(_ context.Context, key domain.InstanceKey) (*domain.FieldInstanceConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

// Save stores a copy of cfg.
func (s *MemoryStore) Save(_ context.Context, cfg *domain.FieldInstanceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[cfg.Key()] = *cfg
	s.saves++
	return nil
}

// InsertIfAbsent stores cfg unless its key already exists.
func (s *MemoryStore) InsertIfAbsent(_ context.Context, cfg *domain.FieldInstanceConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[cfg.Key()]; ok {
		return false, nil
	}
	s.records[cfg.Key()] = *cfg
	return true, nil
}

// SaveCount returns how many Save calls have succeeded.
func (s *MemoryStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
