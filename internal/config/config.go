package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	StoreDriver   string `envconfig:"USER_STORE_DRIVER" default:"file"`
	UserFile      string `envconfig:"USER_FILE" default:"data/users.txt"`
	StoreCapacity int    `envconfig:"USER_STORE_CAPACITY" default:"200"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	JWTSecret     string `envconfig:"JWT_SECRET"`
	JWTIssuer     string `envconfig:"JWT_ISSUER" default:"coffee-shop"`
	JWTTTLMinutes int    `envconfig:"JWT_TTL_MINUTES" default:"60"`
	CORSOrigins   string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = 60
	}

	switch cfg.StoreDriver {
	case DriverFile:
		if strings.TrimSpace(cfg.UserFile) == "" {
			return Config{}, errors.New("USER_FILE is required")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	default:
		return Config{}, fmt.Errorf("unknown USER_STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreCapacity <= 0 {
		return Config{}, errors.New("USER_STORE_CAPACITY must be positive")
	}

	return cfg, nil
}

// RequireJWT checks the settings only the HTTP server needs.
func (c Config) RequireJWT() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// JWTTTL returns the token lifetime.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

// AllowedOrigins splits CORSOrigins into a list, defaulting to "*".
func (c Config) AllowedOrigins() []string {
	return parseCSV(c.CORSOrigins)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
