package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-menu/backend/config"
	"github.com/pageza/alchemorsel-menu/backend/internal/api"
	"github.com/pageza/alchemorsel-menu/backend/internal/mocks"
	"github.com/pageza/alchemorsel-menu/backend/internal/storage"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{Env: config.Test, CORSOrigins: []string{"http://localhost:5173"}}
}

func TestHealth(t *testing.T) {
	healthy := SetupRouter(Dependencies{
		Config:  testConfig(),
		Storage: storage.NewMemStorage(),
		Health: map[string]api.Pinger{
			"database": func(context.Context) error { return nil },
		},
		Logger: zap.NewNop(),
	})
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","components":{"database":"ok"}}`, w.Body.String())

	degraded := SetupRouter(Dependencies{
		Config:  testConfig(),
		Storage: storage.NewMemStorage(),
		Health: map[string]api.Pinger{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		},
		Logger: zap.NewNop(),
	})
	w = httptest.NewRecorder()
	degraded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","components":{"redis":"unavailable"}}`, w.Body.String())
}

func TestRecipeRoutesAreMounted(t *testing.T) {
	engine := SetupRouter(Dependencies{
		Config:  testConfig(),
		Storage: storage.NewMemStorage(),
		Logger:  zap.NewNop(),
	})

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodDelete, "/api/recipes/1", http.StatusNoContent},
		{http.MethodPatch, "/api/recipes/1/favorite", http.StatusBadRequest},
		{http.MethodPost, "/api/recipes", http.StatusBadRequest},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestGenerateRateLimitIsOptIn(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer rdb.Close()

	generator := new(mocks.MockRecipeGenerator)
	generator.On("GenerateRecipe", mock.Anything, mock.Anything).Return(&types.GeneratedRecipe{
		Title:        "Omelette",
		Ingredients:  []string{"eggs"},
		Instructions: []string{"whisk", "cook"},
		Summary:      "Eggs.",
	}, nil)

	generate := func(engine *gin.Engine) int {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/generate", strings.NewReader(`{"ingredients":["egg"]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	unlimited := SetupRouter(Dependencies{Config: testConfig(), Storage: storage.NewMemStorage(), Generator: generator, Redis: rdb, Logger: zap.NewNop()})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, generate(unlimited))
	}

	cfg := testConfig()
	cfg.GenerateRateLimit = 1
	limited := SetupRouter(Dependencies{Config: cfg, Storage: storage.NewMemStorage(), Generator: generator, Redis: rdb, Logger: zap.NewNop()})
	assert.Equal(t, http.StatusOK, generate(limited))
	assert.Equal(t, http.StatusTooManyRequests, generate(limited))
}
