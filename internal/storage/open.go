package storage

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/database"
)

// Open selects the store for cfg: the database when DATABASE_URL is set and
// process memory otherwise. A non-nil redis client fronts the store with the
// list cache. db is nil for the in-memory store.
func Open(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (store Storage, db *gorm.DB, err error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("DATABASE_URL not set, recipes are kept in memory and lost on restart")
		store = NewMemStorage()
	} else {
		db, err = database.Open(cfg.DatabaseURL, cfg.LogLevel == "debug", logger)
		if err != nil {
			return nil, nil, err
		}
		// SQLite databases are local files; create the table on first use
		if db.Dialector.Name() == "sqlite" {
			if err := database.Migrate(db); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
			}
		}
		store = NewDatabaseStorage(db)
	}

	if rdb != nil {
		store = NewCachedStorage(store, rdb, cfg.RecipesCacheTTL, logger)
	}
	return store, db, nil
}
