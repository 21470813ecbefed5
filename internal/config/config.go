package config

import (
	"os"
	"strconv"

	"generank/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds the optional Postgres ledger settings. When URL
// is empty the application falls back to the in-memory ledger.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds engine defaults
type AnalysisConfig struct {
	Workers      int
	Permutations int
	Seed         int64
	MinSetSize   int
	MaxSetSize   int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Analysis: AnalysisConfig{
			Workers:      getEnvIntOrDefault("ANALYSIS_WORKERS", 25),
			Permutations: getEnvIntOrDefault("ANALYSIS_PERMUTATIONS", 5000),
			Seed:         int64(getEnvIntOrDefault("ANALYSIS_SEED", 42)),
			MinSetSize:   getEnvIntOrDefault("GENESET_MIN_SIZE", 10),
			MaxSetSize:   getEnvIntOrDefault("GENESET_MAX_SIZE", 200),
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if cfg.Analysis.Permutations < 1 {
		return errors.ConfigInvalid("ANALYSIS_PERMUTATIONS must be at least 1")
	}
	if cfg.Analysis.MinSetSize < 0 {
		return errors.ConfigInvalid("GENESET_MIN_SIZE must not be negative")
	}
	if cfg.Analysis.MaxSetSize <= cfg.Analysis.MinSetSize {
		return errors.ConfigInvalid("GENESET_MAX_SIZE must exceed GENESET_MIN_SIZE")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
