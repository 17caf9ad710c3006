package config

import (
	"fmt"
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

var storeDrivers = map[string]bool{
	"memory": true,
	"sqlite": true,
}

// ValidateConfig checks the configuration for values the server cannot run with
func ValidateConfig(cfg *Config) error {
	var errors []string

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, ValidationError{"PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)}.Error())
	}

	if !storeDrivers[cfg.StoreDriver] {
		errors = append(errors, ValidationError{"STORE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StoreDriver)}.Error())
	}

	if cfg.RateLimit < 0 {
		errors = append(errors, ValidationError{"RATE_LIMIT", "must not be negative"}.Error())
	}
	if cfg.RateLimit > 0 && cfg.RateLimitWindow <= 0 {
		errors = append(errors, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"}.Error())
	}

	if len(cfg.CORSOrigins) == 0 {
		errors = append(errors, ValidationError{"CORS_ORIGINS", "at least one origin is required"}.Error())
	}
	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errors = append(errors, ValidationError{"CORS_ORIGINS", fmt.Sprintf("origin %q must start with http:// or https://", origin)}.Error())
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, ValidationError{"SHUTDOWN_TIMEOUT", "must be positive"}.Error())
	}

	// In production, shared rate limiting needs credentials from Docker secrets or env
	if cfg.Environment.IsProduction() && cfg.RedisEnabled() && cfg.RedisURL == "" && cfg.RedisPassword == "" {
		errors = append(errors, ValidationError{"REDIS_PASSWORD", "redis_password secret is required in production"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
