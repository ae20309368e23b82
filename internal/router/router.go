package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/api"
	"github.com/pageza/alchemorsel-menu/backend/internal/middleware"
	"github.com/pageza/alchemorsel-menu/backend/internal/service"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
)

// Dependencies are the collaborators the routes are wired to. Redis is optional.
type Dependencies struct {
	Config    *config.Config
	Storage   storage.Storage
	Generator service.RecipeGenerator
	Redis     *redis.Client
	Health    map[string]api.Pinger
	Logger    *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config.CORSOrigins))

	health := api.NewHealthHandler(deps.Health, deps.Logger)
	router.GET("/health", health.HealthCheck)

	var generateMiddleware []gin.HandlerFunc
	if deps.Config.GenerateRateLimit > 0 && deps.Redis != nil {
		limiter := middleware.NewGenerateRateLimiter(deps.Redis, deps.Config.GenerateRateLimit, deps.Logger)
		generateMiddleware = append(generateMiddleware, limiter.RateLimitMiddleware())
	}

	recipes := api.NewRecipeHandler(deps.Storage, deps.Generator, deps.Logger)
	recipes.RegisterRoutes(router, generateMiddleware...)

	return router
}
