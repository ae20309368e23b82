package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// MockRecipeStorage is a mock implementation of storage.Storage
type MockRecipeStorage struct {
	mock.Mock
}

// GetRecipes mocks the GetRecipes method
func (m *MockRecipeStorage) GetRecipes(ctx context.Context) ([]types.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeStorage) GetRecipe(ctx context.Context, id int64) (*types.Recipe, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*types.Recipe), args.Bool(1), args.Error(2)
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeStorage) CreateRecipe(ctx context.Context, in types.InsertRecipe) (*types.Recipe, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeStorage) DeleteRecipe(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ToggleFavorite mocks the ToggleFavorite method
func (m *MockRecipeStorage) ToggleFavorite(ctx context.Context, id int64, isFavorite bool) (*types.Recipe, bool, error) {
	args := m.Called(ctx, id, isFavorite)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*types.Recipe), args.Bool(1), args.Error(2)
}

// MockRecipeGenerator is a mock implementation of service.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

// GenerateRecipe mocks the GenerateRecipe method
func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, req types.GenerateRecipeRequest) (*types.GeneratedRecipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeneratedRecipe), args.Error(1)
}
