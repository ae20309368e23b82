package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	CORSOrigins []string
	LogLevel    string

	// Store configuration. An empty DatabaseURL selects the in-memory store.
	DatabaseURL string

	// Redis configuration. An empty RedisURL disables the list cache and rate limiting.
	RedisURL          string
	RecipesCacheTTL   time.Duration
	GenerateRateLimit int

	// AI service configuration
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration
}

const (
	defaultServerHost  = "0.0.0.0"
	defaultServerPort  = "5000"
	defaultCORSOrigins = "http://localhost:5173"
	defaultAIBaseURL   = "https://api.openai.com/v1"
	defaultAIModel     = "gpt-5.1"
	defaultAITimeout   = 60 * time.Second
	defaultCacheTTL    = 5 * time.Minute
)

// LoadConfig creates a new Config from a .env file (if present), environment
// variables and docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence over it
	_ = godotenv.Load()

	cfg := &Config{
		Env:         GetEnvironment(),
		ServerHost:  lookup("SERVER_HOST", "server_host", defaultServerHost),
		ServerPort:  lookup("SERVER_PORT", "server_port", ""),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		DatabaseURL: lookup("DATABASE_URL", "database_url", ""),
		RedisURL:    lookup("REDIS_URL", "redis_url", ""),
		AIAPIKey:    lookup("AI_INTEGRATIONS_OPENAI_API_KEY", "openai_api_key", ""),
		AIBaseURL:   lookup("AI_INTEGRATIONS_OPENAI_BASE_URL", "", defaultAIBaseURL),
		AIModel:     lookup("AI_MODEL", "", defaultAIModel),
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = lookup("PORT", "", defaultServerPort)
	}
	cfg.CORSOrigins = splitList(lookup("CORS_ORIGINS", "", defaultCORSOrigins))

	var err error
	if cfg.AITimeout, err = durationVar("AI_TIMEOUT", defaultAITimeout); err != nil {
		return nil, err
	}
	if cfg.RecipesCacheTTL, err = durationVar("RECIPES_CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}
	if v := os.Getenv("GENERATE_RATE_LIMIT"); v != "" {
		if cfg.GenerateRateLimit, err = strconv.Atoi(v); err != nil {
			return nil, ValidationError{Field: "GENERATE_RATE_LIMIT", Message: "must be an integer"}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// UsesMemoryStore reports whether no durable store is configured
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}

// lookup reads an environment variable, then the named docker secret, then
// falls back to def.
func lookup(envVar, secret, def string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if secret != "" {
		if v := readSecret(secret); v != "" {
			return v
		}
	}
	return def
}

func durationVar(envVar string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(envVar)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, ValidationError{Field: envVar, Message: fmt.Sprintf("invalid duration %q", v)}
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
