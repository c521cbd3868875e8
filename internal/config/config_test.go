package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.True(t, cfg.Timesheet.BlockSubmitOnErrors)
	assert.False(t, cfg.Timesheet.ResetStatusOnUnseenMonth)
	assert.InDelta(t, 8, cfg.Timesheet.StandardHours, 1e-9)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, "postgres://postgres:@localhost:5432/dochazka?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TIMESHEET_BLOCK_SUBMIT_ON_ERRORS", "false")
	t.Setenv("TIMESHEET_STANDARD_HOURS", "7.5")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.Timesheet.BlockSubmitOnErrors)
	assert.InDelta(t, 7.5, cfg.Timesheet.StandardHours, 1e-9)
	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	type testCase struct {
		name string
		key  string
		val  string
	}

	tests := []testCase{
		{name: "Unknown driver", key: "STORAGE_DRIVER", val: "sqlite"},
		{name: "Zero standard hours", key: "TIMESHEET_STANDARD_HOURS", val: "0"},
		{name: "Empty holiday range", key: "HOLIDAYS_MIN_YEAR", val: "2200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
