package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Store implements ports.ConversionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Conversion
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Conversion),
	}
}

// Save persists the conversion in memory.
func (s *Store) Save(ctx context.Context, c *domain.Conversion) error {
	copied := clone(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[c.ID] = copied
	return nil
}

// Load retrieves the conversion from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Conversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return nil, domain.ErrConversionNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return clone(c), nil
}

// Delete removes the conversion.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored conversion IDs in lexical order.
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

func clone(c *domain.Conversion) *domain.Conversion {
	out := *c
	out.Steps = make([]domain.Step, len(c.Steps))
	copy(out.Steps, c.Steps)
	return &out
}
