package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-menu/backend/internal/model"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// DatabaseStorage stores recipes in the recipes table
type DatabaseStorage struct {
	db *gorm.DB
}

// NewDatabaseStorage creates a new DatabaseStorage instance
func NewDatabaseStorage(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

func (s *DatabaseStorage) GetRecipes(ctx context.Context) ([]types.Recipe, error) {
	var rows []model.Recipe
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, unavailable("list recipes", err)
	}

	recipes := make([]types.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, row.ToType())
	}
	return recipes, nil
}

func (s *DatabaseStorage) GetRecipe(ctx context.Context, id int64) (*types.Recipe, bool, error) {
	var row model.Recipe
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get recipe", err)
	}
	recipe := row.ToType()
	return &recipe, true, nil
}

func (s *DatabaseStorage) CreateRecipe(ctx context.Context, in types.InsertRecipe) (*types.Recipe, error) {
	row := model.NewRecipe(in)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, unavailable("create recipe", err)
	}
	recipe := row.ToType()
	return &recipe, nil
}

func (s *DatabaseStorage) DeleteRecipe(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return unavailable("delete recipe", err)
	}
	return nil
}

func (s *DatabaseStorage) ToggleFavorite(ctx context.Context, id int64, isFavorite bool) (*types.Recipe, bool, error) {
	var row model.Recipe
	result := s.db.WithContext(ctx).
		Model(&row).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("is_favorite", isFavorite)
	if result.Error != nil {
		return nil, false, unavailable("toggle favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	if row.ID == 0 {
		// Dialects without RETURNING leave the row unpopulated
		return s.GetRecipe(ctx, id)
	}
	recipe := row.ToType()
	return &recipe, true, nil
}
