// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all configuration for the server.
type Config struct {
	Port     int
	DBDriver string
	DBPath   string
	// DatabaseURL is required when DBDriver is postgres.
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string
	// ReconcileInterval is how often the reconcile sweep runs after startup. Zero runs it once.
	ReconcileInterval time.Duration
	DirectoryCacheTTL time.Duration

	OTelEnabled       bool
	OTelExporter      string
	OTelEndpoint      string
	OTelSamplingRatio float64
}

// Load reads configuration from environment variables, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults and validating the result.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port:              p.int("PORT", 8080),
		DBDriver:          strings.ToLower(p.string("DB_DRIVER", "sqlite")),
		DBPath:            p.string("DB_PATH", "./data/billmate.db"),
		DatabaseURL:       p.string("DATABASE_URL", ""),
		JWTSecret:         p.string("JWT_SECRET", ""),
		TokenTTL:          p.duration("TOKEN_TTL", 7*24*time.Hour),
		LogLevel:          strings.ToLower(p.string("LOG_LEVEL", "info")),
		ReconcileInterval: p.duration("RECONCILE_INTERVAL", 10*time.Minute),
		DirectoryCacheTTL: p.duration("DIRECTORY_CACHE_TTL", 5*time.Minute),
		OTelEnabled:       p.bool("OTEL_ENABLED", false),
		OTelExporter:      strings.ToLower(p.string("OTEL_EXPORTER", "stdout")),
		OTelEndpoint:      p.string("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelSamplingRatio: p.float("OTEL_SAMPLING_RATIO", 1),
	}

	errs := p.errs
	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return cfg, nil
}

// validate checks that all required configuration is present and consistent.
func (c *Config) validate() []string {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, "DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, "TOKEN_TTL must be positive")
	}
	if c.ReconcileInterval < 0 {
		errs = append(errs, "RECONCILE_INTERVAL cannot be negative")
	}
	if c.DirectoryCacheTTL <= 0 {
		errs = append(errs, "DIRECTORY_CACHE_TTL must be positive")
	}

	if c.OTelEnabled {
		switch c.OTelExporter {
		case "stdout", "http", "grpc":
		default:
			errs = append(errs, fmt.Sprintf("OTEL_EXPORTER must be stdout, http or grpc, got %q", c.OTelExporter))
		}
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		errs = append(errs, "OTEL_SAMPLING_RATIO must be between 0 and 1")
	}

	return errs
}

// parser reads typed values and collects the ones it cannot parse.
type parser struct {
	getenv func(string) string
	errs   []string
}

func (p *parser) string(key, fallback string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (p *parser) int(key string, fallback int) int {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be an integer, got %q", key, raw))
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be a boolean, got %q", key, raw))
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s must be a number, got %q", key, raw))
		return fallback
	}
	return v
}

// duration accepts Go duration strings such as "90s" or "12h".
func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(p.getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		// Bare numbers are taken as seconds.
		secs, castErr := cast.ToInt64E(raw)
		if castErr != nil {
			p.errs = append(p.errs, fmt.Sprintf("%s must be a duration like 30s or 1h, got %q", key, raw))
			return fallback
		}
		return time.Duration(secs) * time.Second
	}
	return v
}
