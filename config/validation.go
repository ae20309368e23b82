package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	// The in-memory store is a development fallback only
	if cfg.Env == Production && cfg.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL is required in production")
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errors = append(errors, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)}.Error())
	}

	if cfg.DatabaseURL != "" {
		if err := checkDatabaseURL(cfg.DatabaseURL); err != nil {
			errors = append(errors, ValidationError{Field: "DATABASE_URL", Message: err.Error()}.Error())
		}
	}

	if _, err := url.ParseRequestURI(cfg.AIBaseURL); err != nil {
		errors = append(errors, ValidationError{Field: "AI_INTEGRATIONS_OPENAI_BASE_URL", Message: "must be an absolute URL"}.Error())
	}

	if cfg.GenerateRateLimit < 0 {
		errors = append(errors, ValidationError{Field: "GENERATE_RATE_LIMIT", Message: "must not be negative"}.Error())
	}
	if cfg.GenerateRateLimit > 0 && cfg.RedisURL == "" {
		errors = append(errors, ValidationError{Field: "GENERATE_RATE_LIMIT", Message: "requires REDIS_URL"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func checkDatabaseURL(raw string) error {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		return fmt.Errorf("missing scheme")
	}
	switch scheme {
	case "postgres", "postgresql", "sqlite":
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q (want postgres or sqlite)", scheme)
	}
}
