// Package storage persists recipes. DatabaseStorage backs onto a relational
// database through GORM, MemStorage keeps recipes in process memory for
// development, and CachedStorage fronts either with a Redis list cache.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// ErrUnavailable wraps every failure of the backing store
var ErrUnavailable = errors.New("storage unavailable")

// Storage is the persistence contract for recipes. A missing recipe is a
// normal outcome: GetRecipe and ToggleFavorite report it with found == false
// and a nil error, and DeleteRecipe treats it as a no-op.
type Storage interface {
	// GetRecipes returns every recipe, most recently created first.
	GetRecipes(ctx context.Context) ([]types.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (recipe *types.Recipe, found bool, err error)
	// CreateRecipe stores a new recipe with a fresh id, the current time and isFavorite=false.
	CreateRecipe(ctx context.Context, in types.InsertRecipe) (*types.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64, isFavorite bool) (recipe *types.Recipe, found bool, err error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
