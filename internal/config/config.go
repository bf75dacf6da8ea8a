package config

import (
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionTTL:      parseInterval(strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))),
		CleanupInterval: parseInterval(strings.TrimSpace(os.Getenv("SESSION_CLEANUP_INTERVAL_HOURS"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasktracker.db"
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
