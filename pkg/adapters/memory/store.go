package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// Store implements ports.LayoutStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Layout
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Layout),
	}
}

// Save persists the layout in memory.
func (s *Store) Save(ctx context.Context, id string, layout *domain.Layout) error {
	copied := layout.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load retrieves the layout from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layout, ok := s.data[id]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}

	// Copy on read so callers can't mutate the stored layout through the pointer.
	return layout.Clone(), nil
}

// Delete removes the layout.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored layout ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
