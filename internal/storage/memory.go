package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// MemStorage keeps recipes in process memory. It is the development fallback
// when no database is configured; contents are lost on restart.
type MemStorage struct {
	mu      sync.RWMutex
	recipes map[int64]types.Recipe
	nextID  int64
	lastAt  time.Time
	now     func() time.Time
}

// NewMemStorage creates an empty in-memory store
func NewMemStorage() *MemStorage {
	return &MemStorage{
		recipes: make(map[int64]types.Recipe),
		nextID:  1,
		now:     time.Now,
	}
}

func (s *MemStorage) GetRecipes(_ context.Context) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipes := make([]types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		recipes = append(recipes, clone(r))
	}
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
		}
		return recipes[i].ID > recipes[j].ID
	})
	return recipes, nil
}

func (s *MemStorage) GetRecipe(_ context.Context, id int64) (*types.Recipe, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, false, nil
	}
	out := clone(r)
	return &out, true, nil
}

func (s *MemStorage) CreateRecipe(_ context.Context, in types.InsertRecipe) (*types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// createdAt never goes backwards, even if the wall clock does
	createdAt := s.now()
	if createdAt.Before(s.lastAt) {
		createdAt = s.lastAt
	}
	s.lastAt = createdAt

	r := types.Recipe{
		ID:           s.nextID,
		Title:        in.Title,
		Ingredients:  append([]string{}, in.Ingredients...),
		Instructions: append([]string{}, in.Instructions...),
		CreatedAt:    createdAt,
	}
	if in.PreparationTime != nil {
		r.PreparationTime = *in.PreparationTime
	}
	if in.Servings != nil {
		r.Servings = *in.Servings
	}
	s.nextID++
	s.recipes[r.ID] = r

	out := clone(r)
	return &out, nil
}

func (s *MemStorage) DeleteRecipe(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recipes, id)
	return nil
}

func (s *MemStorage) ToggleFavorite(_ context.Context, id int64, isFavorite bool) (*types.Recipe, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, false, nil
	}
	r.IsFavorite = isFavorite
	s.recipes[id] = r

	out := clone(r)
	return &out, true, nil
}

func clone(r types.Recipe) types.Recipe {
	r.Ingredients = append([]string{}, r.Ingredients...)
	r.Instructions = append([]string{}, r.Instructions...)
	return r
}
