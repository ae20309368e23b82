package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/database"
	"github.com/pageza/alchemorsel-menu/backend/internal/logger"
)

func main() {
	verbose := flag.Bool("v", false, "Log every SQL statement")
	flag.Parse()

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
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.Open(cfg.DatabaseURL, *verbose, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations applied")
}
