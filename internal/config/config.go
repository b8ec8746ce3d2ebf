package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the quest-guide services.
// Values come from an optional YAML file, overridden by environment
// variables.
type Config struct {
	Port        string        `yaml:"port"`
	Environment string        `yaml:"environment"`
	LogLevel    slog.Level    `yaml:"-"`
	LogLevelRaw string        `yaml:"log_level"`
	RedisURL    string        `yaml:"redis_url"`
	DataDir     string        `yaml:"data_dir"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

// Load builds the configuration from defaults, the YAML file named by
// QUESTGUIDE_CONFIG (if any), and environment variables, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        "8080",
		Environment: "development",
		LogLevelRaw: "info",
		RedisURL:    "localhost:6379",
		DataDir:     "./data",
		SessionTTL:  24 * time.Hour,
	}

	if path := os.Getenv("QUESTGUIDE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.Environment, "ENVIRONMENT")
	applyEnv(&cfg.LogLevelRaw, "LOG_LEVEL")
	applyEnv(&cfg.RedisURL, "REDIS_URL")
	applyEnv(&cfg.DataDir, "DATA_DIR")

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	return cfg, nil
}

func applyEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
