package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	ClockScale           string
	AutosaveIntervalSecs int
	FlushWorkerCount     int
	FlushQueueSize       int
	TxMaxRetries         int
	DueQueryLimit        int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:cardflow.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		ClockScale:           envOr("CLOCK_SCALE", "standard"),
		AutosaveIntervalSecs: envIntOr("AUTOSAVE_INTERVAL_SECS", 30),
		FlushWorkerCount:     envIntOr("FLUSH_WORKER_COUNT", 1),
		FlushQueueSize:       envIntOr("FLUSH_QUEUE_SIZE", 16),
		TxMaxRetries:         envIntOr("TX_MAX_RETRIES", 5),
		DueQueryLimit:        envIntOr("DUE_QUERY_LIMIT", 200),
	}
}

// Validate checks the configuration and collects every problem into a single
// error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	switch strings.ToLower(c.ClockScale) {
	case "standard", "accelerated":
	default:
		problems = append(problems, fmt.Sprintf("CLOCK_SCALE %q must be standard or accelerated", c.ClockScale))
	}
	if c.AutosaveIntervalSecs < 1 {
		problems = append(problems, "AUTOSAVE_INTERVAL_SECS must be at least 1")
	}
	if c.FlushWorkerCount < 1 {
		problems = append(problems, "FLUSH_WORKER_COUNT must be at least 1")
	}
	if c.FlushQueueSize < 1 {
		problems = append(problems, "FLUSH_QUEUE_SIZE must be at least 1")
	}
	if c.TxMaxRetries < 1 {
		problems = append(problems, "TX_MAX_RETRIES must be at least 1")
	}
	if c.DueQueryLimit < 1 {
		problems = append(problems, "DUE_QUERY_LIMIT must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
