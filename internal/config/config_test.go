package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "DB_PATH", "CORS_ALLOWED_ORIGINS",
		"LOG_LEVEL", "LOG_PRETTY", "SUMMARY_WORKERS", "SUMMARY_REFRESH_SCHEDULE",
		"VALUATION_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:5001", cfg.Server.Addr)
	assert.Equal(t, "./data/fund_ledger.db", cfg.Database.Path)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 4, cfg.Summary.Workers)
	assert.Equal(t, "0 30 9,15 * * MON-FRI", cfg.Summary.RefreshSchedule)
	assert.Equal(t, 20*time.Second, cfg.Valuation.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SUMMARY_WORKERS", "8")
	t.Setenv("VALUATION_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 8, cfg.Summary.Workers)
	assert.Equal(t, 5*time.Second, cfg.Valuation.Timeout)
}

// TestLoad_MalformedValues checks that unparsable numbers fall back to defaults.
//
// WHY: A typo in an optional tuning variable should not stop the service.
func TestLoad_MalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUMMARY_WORKERS", "many")
	t.Setenv("VALUATION_TIMEOUT", "soon")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Summary.Workers)
	assert.Equal(t, 20*time.Second, cfg.Valuation.Timeout)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUMMARY_WORKERS", "0")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("VALUATION_TIMEOUT", "-1s")
	_, err = Load()
	assert.Error(t, err)
}
