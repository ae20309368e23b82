package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-menu/backend/internal/model"
)

// Migrate creates or updates the recipes table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to migrate recipes table: %w", err)
	}
	return nil
}
