package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

const (
	// RecipesListKey prefixes the cached results of GetRecipes, one key per
	// generation
	RecipesListKey = "recipes:list"
	// RecipesGenerationKey is incremented by every successful mutation
	RecipesGenerationKey = "recipes:list:gen"
)

// ListKey names the cached list of a generation
func ListKey(generation int64) string {
	return fmt.Sprintf("%s:%d", RecipesListKey, generation)
}

// CachedStorage serves GetRecipes from Redis. Every successful mutation bumps
// the list generation, so a list read before the mutation can only be stored
// under a key nobody reads again. Redis errors are logged and the call falls
// through to the wrapped store.
type CachedStorage struct {
	Storage
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStorage wraps inner with a Redis list cache
func NewCachedStorage(inner Storage, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStorage {
	return &CachedStorage{
		Storage: inner,
		redis:   client,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *CachedStorage) GetRecipes(ctx context.Context) ([]types.Recipe, error) {
	generation, err := s.redis.Get(ctx, RecipesGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("recipe list cache read failed", zap.Error(err))
		return s.Storage.GetRecipes(ctx)
	}
	key := ListKey(generation)

	data, err := s.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var recipes []types.Recipe
		if jsonErr := json.Unmarshal(data, &recipes); jsonErr == nil && recipes != nil {
			return recipes, nil
		}
		s.logger.Warn("discarding unreadable cached recipe list")
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("recipe list cache read failed", zap.Error(err))
	}

	recipes, err := s.Storage.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recipes); err == nil {
		if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("recipe list cache write failed", zap.Error(err))
		}
	}
	return recipes, nil
}

func (s *CachedStorage) CreateRecipe(ctx context.Context, in types.InsertRecipe) (*types.Recipe, error) {
	recipe, err := s.Storage.CreateRecipe(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return recipe, nil
}

func (s *CachedStorage) DeleteRecipe(ctx context.Context, id int64) error {
	if err := s.Storage.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStorage) ToggleFavorite(ctx context.Context, id int64, isFavorite bool) (*types.Recipe, bool, error) {
	recipe, found, err := s.Storage.ToggleFavorite(ctx, id, isFavorite)
	if err != nil {
		return nil, false, err
	}
	if found {
		s.invalidate(ctx)
	}
	return recipe, found, nil
}

func (s *CachedStorage) invalidate(ctx context.Context) {
	if err := s.redis.Incr(ctx, RecipesGenerationKey).Err(); err != nil {
		s.logger.Warn("recipe list cache invalidation failed", zap.Error(err))
	}
}
