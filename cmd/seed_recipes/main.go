package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/database"
	"github.com/pageza/alchemorsel-menu/backend/internal/logger"
	"github.com/pageza/alchemorsel-menu/backend/internal/seed"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}
	log, err := logger.Init(cfg.Env.IsProduction(), cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.UsesMemoryStore() {
		log.Fatal("DATABASE_URL environment variable is not set; seeding memory would be lost on exit")
	}

	// Seeding through the list cache invalidates what a running server has cached
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(cfg.RedisURL, log)
		if err != nil {
			log.Warn("seeding without redis, cached recipe lists expire on their own", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Info("seeding database")
	result, err := seedRecipes(ctx, cfg, rdb, log)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	if result.AlreadySeeded {
		log.Info("database already seeded")
		return
	}
	log.Info("seeding complete", zap.Int("recipes", len(result.Created)))
}

func seedRecipes(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *zap.Logger) (*seed.Result, error) {
	store, db, err := storage.Open(cfg, rdb, log)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	recipes, err := seed.HouseRecipes()
	if err != nil {
		return nil, err
	}
	return seed.Run(ctx, store, recipes, log)
}
