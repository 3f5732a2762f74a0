package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpivetta/cardflow/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		DBPath:               "test.db",
		LogLevel:             "INFO",
		ClockScale:           "standard",
		AutosaveIntervalSecs: 30,
		FlushWorkerCount:     1,
		FlushQueueSize:       16,
		TxMaxRetries:         5,
		DueQueryLimit:        200,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"DEBUG", true},
		{"INFO", true},
		{"WARN", true},
		{"ERROR", true},
		{"debug", true}, // case-insensitive
		{"INVALID", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ClockScale(t *testing.T) {
	for _, scale := range []string{"standard", "accelerated", "Accelerated"} {
		cfg := validConfig()
		cfg.ClockScale = scale
		assert.NoError(t, cfg.Validate(), "scale %q should be accepted", scale)
	}

	cfg := validConfig()
	cfg.ClockScale = "warp"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CLOCK_SCALE")
}

func TestValidate_NumericBounds(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"zero autosave interval", func(c *config.Config) { c.AutosaveIntervalSecs = 0 }, "AUTOSAVE_INTERVAL_SECS"},
		{"zero flush workers", func(c *config.Config) { c.FlushWorkerCount = 0 }, "FLUSH_WORKER_COUNT"},
		{"negative flush workers", func(c *config.Config) { c.FlushWorkerCount = -1 }, "FLUSH_WORKER_COUNT"},
		{"zero flush queue", func(c *config.Config) { c.FlushQueueSize = 0 }, "FLUSH_QUEUE_SIZE"},
		{"zero tx retries", func(c *config.Config) { c.TxMaxRetries = 0 }, "TX_MAX_RETRIES"},
		{"zero due limit", func(c *config.Config) { c.DueQueryLimit = 0 }, "DUE_QUERY_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "CLOCK_SCALE")
	assert.Contains(t, errStr, "TX_MAX_RETRIES")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("CLOCK_SCALE", "accelerated")
	t.Setenv("AUTOSAVE_INTERVAL_SECS", "10")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "accelerated", cfg.ClockScale)
	assert.Equal(t, 10, cfg.AutosaveIntervalSecs)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("TX_MAX_RETRIES", "not-a-number")
	os.Unsetenv("AUTOSAVE_INTERVAL_SECS")

	cfg := config.Load()

	assert.Equal(t, 5, cfg.TxMaxRetries)
	assert.Equal(t, 30, cfg.AutosaveIntervalSecs)
}
