package store

import (
	"context"
	"sync"

	"github.com/matzehuels/myseum/pkg/wall"
)

// MemoryStore keeps walls in memory. Walls are copied on the way in and
// out, so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	walls map[string]*wall.Wall
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{walls: make(map[string]*wall.Wall)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*wall.Wall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.walls[id]
	if !ok {
		return nil, NotFound(id)
	}
	return w.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, w *wall.Wall) error {
	if err := CheckSave(w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Touch()
	s.walls[w.ID] = w.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.walls[id]; !ok {
		return NotFound(id)
	}
	delete(s.walls, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, ownerID string) ([]wall.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]wall.Summary, 0, len(s.walls))
	for _, w := range s.walls {
		if ownerID == "" || w.OwnerID == ownerID {
			out = append(out, w.Summary())
		}
	}
	SortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
