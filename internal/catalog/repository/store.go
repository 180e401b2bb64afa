// Package repository holds the live catalog snapshot and the sources it is loaded from.
package repository

import (
	"sync/atomic"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/apperr"
)

// Store holds the current catalog snapshot. Readers never block and always
// see a complete snapshot; Replace swaps it wholesale.
type Store struct {
	current atomic.Pointer[domain.Snapshot]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the live snapshot, or an Unavailable error before the first load.
func (s *Store) Current() (*domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperr.Unavailable("product catalog is not loaded").WithOp("catalog.Current")
	}
	return snap, nil
}

// Replace installs snap as the live snapshot and returns the previous one.
func (s *Store) Replace(snap *domain.Snapshot) *domain.Snapshot {
	return s.current.Swap(snap)
}
