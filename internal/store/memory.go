package store

import (
	"context"
	"sync"

	"github.com/pageza/recipebox/backend/internal/types"
)

// MemoryStore keeps recipes in an ordered slice guarded by a single lock
type MemoryStore struct {
	mu      sync.RWMutex
	recipes []types.Recipe
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recipes: []types.Recipe{}}
}

// List returns a copy of every recipe in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out, nil
}

// Get returns the recipe with the given id
func (s *MemoryStore) Get(ctx context.Context, id string) (types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Recipe{}, ErrNotFound
	}
	return s.recipes[i].Clone(), nil
}

// Create appends the recipe. The caller assigns the id.
func (s *MemoryStore) Create(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(recipe.ID) >= 0 {
		return types.Recipe{}, ErrDuplicateID
	}
	stored := normalize(recipe)
	s.recipes = append(s.recipes, stored)
	return stored.Clone(), nil
}

// Update replaces the name and ingredients of an existing recipe
func (s *MemoryStore) Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(recipe.ID)
	if i < 0 {
		return types.Recipe{}, ErrNotFound
	}
	s.recipes[i] = normalize(recipe)
	return s.recipes[i].Clone(), nil
}

// Delete removes the recipe with the given id
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	return nil
}

// Len returns the number of recipes held
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes), nil
}

// Close drops every recipe
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = nil
	return nil
}

// indexOf must be called with the lock held
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

func normalize(r types.Recipe) types.Recipe {
	out := r.Clone()
	if out.Ingredients == nil {
		out.Ingredients = []string{}
	}
	return out
}
