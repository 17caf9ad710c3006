package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the environment leaves a value unset
const (
	DefaultServerPort      = "8080"
	DefaultStoreDriver     = "memory"
	DefaultCORSOrigins     = "http://localhost:5173"
	DefaultRateLimit       = 600
	DefaultRateLimitWindow = time.Minute
	DefaultShutdownTimeout = 5 * time.Second
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration

	// Store configuration
	StoreDriver string
	SeedSource  string
	AWSRegion   string

	// HTTP behaviour
	CORSOrigins     []string
	RateLimit       int
	RateLimitWindow time.Duration

	// Redis configuration, only used for shared rate limiting
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string
}

// LoadConfig creates a new Config instance from environment variables and secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{Environment: GetEnvironment()}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis server was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func loadFromEnv(cfg *Config) error {
	cfg.ServerPort = firstNonEmpty(os.Getenv("PORT"), os.Getenv("SERVER_PORT"), DefaultServerPort)
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.StoreDriver = firstNonEmpty(os.Getenv("STORE_DRIVER"), DefaultStoreDriver)
	cfg.SeedSource = os.Getenv("SEED_SOURCE")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.CORSOrigins = splitList(firstNonEmpty(os.Getenv("CORS_ORIGINS"), DefaultCORSOrigins))

	var err error
	if cfg.RateLimit, err = intEnv("RATE_LIMIT", DefaultRateLimit); err != nil {
		return err
	}
	if cfg.RateLimitWindow, err = durationEnv("RATE_LIMIT_WINDOW", DefaultRateLimitWindow); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout); err != nil {
		return err
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = firstNonEmpty(os.Getenv("REDIS_PORT"), "6379")
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), readSecret("redis_password"))
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return err
	}

	return nil
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

func intEnv(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return n, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", name, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
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
