package service

import (
	"context"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// RecipeGenerator produces unsaved recipes from pantry ingredients
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, req types.GenerateRecipeRequest) (*types.GeneratedRecipe, error)
}

var _ RecipeGenerator = (*LLMService)(nil)
