// Package seed loads the house recipes into an empty menu.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pageza/alchemorsel-menu/backend/internal/contract"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

//go:embed recipes.yaml
var houseRecipes []byte

// Recipe is one entry of the seed file
type Recipe struct {
	Title           string   `yaml:"title"`
	Favorite        bool     `yaml:"favorite"`
	PreparationTime int      `yaml:"preparationTime"`
	Servings        int      `yaml:"servings"`
	Ingredients     []string `yaml:"ingredients"`
	Instructions    []string `yaml:"instructions"`
}

// Result reports what Run did
type Result struct {
	AlreadySeeded bool
	Created       []types.Recipe
}

// HouseRecipes parses the embedded seed file
func HouseRecipes() ([]Recipe, error) {
	return Parse(houseRecipes)
}

// Parse decodes a seed file and validates every entry as a creation payload
func Parse(data []byte) ([]Recipe, error) {
	var recipes []Recipe
	if err := yaml.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse seed recipes: %w", err)
	}
	for i, r := range recipes {
		if err := contract.Validate(r.insert()); err != nil {
			return nil, fmt.Errorf("seed recipe %d (%q): %w", i, r.Title, err)
		}
	}
	return recipes, nil
}

func (r Recipe) insert() types.InsertRecipe {
	prep, servings := r.PreparationTime, r.Servings
	return types.InsertRecipe{
		Title:           r.Title,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		PreparationTime: &prep,
		Servings:        &servings,
	}
}

// Run creates recipes in order when the store holds none. Favorites are set
// with a toggle after creation, since new recipes always start unfavorited.
func Run(ctx context.Context, store storage.Storage, recipes []Recipe, logger *zap.Logger) (*Result, error) {
	existing, err := store.GetRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing recipes: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("database already seeded", zap.Int("recipes", len(existing)))
		return &Result{AlreadySeeded: true}, nil
	}

	result := &Result{}
	for _, r := range recipes {
		created, err := store.CreateRecipe(ctx, r.insert())
		if err != nil {
			return result, fmt.Errorf("failed to create %q: %w", r.Title, err)
		}
		if r.Favorite {
			updated, found, err := store.ToggleFavorite(ctx, created.ID, true)
			if err != nil {
				return result, fmt.Errorf("failed to favorite %q: %w", r.Title, err)
			}
			if found {
				created = updated
			}
		}
		logger.Info("seeded recipe", zap.Int64("id", created.ID), zap.String("title", created.Title))
		result.Created = append(result.Created, *created)
	}
	return result, nil
}
