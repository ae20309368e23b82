package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/api"
	"github.com/pageza/alchemorsel-menu/backend/internal/database"
	"github.com/pageza/alchemorsel-menu/backend/internal/logger"
	"github.com/pageza/alchemorsel-menu/backend/internal/router"
	"github.com/pageza/alchemorsel-menu/backend/internal/server"
	"github.com/pageza/alchemorsel-menu/backend/internal/service"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger is not configured yet
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.Init(cfg.Env.IsProduction(), cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	health := map[string]api.Pinger{}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(cfg.RedisURL, log)
		if err != nil {
			// Redis only backs the cache and the rate limit
			log.Warn("continuing without redis", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	store, db, err := storage.Open(cfg, rdb, log)
	if err != nil {
		log.Fatal("failed to open recipe store", zap.Error(err))
	}
	if db != nil {
		health["database"] = func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	}

	generator := service.NewLLMService(service.LLMConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	}, log)
	if cfg.AIAPIKey == "" {
		log.Warn("AI_INTEGRATIONS_OPENAI_API_KEY not set, recipe generation will fail")
	}

	engine := router.SetupRouter(router.Dependencies{
		Config:    cfg,
		Storage:   store,
		Generator: generator,
		Redis:     rdb,
		Health:    health,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Addr(), engine, log)
	if err := srv.Run(ctx, 10*time.Second); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}
