package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ADDRESS", "DATABASE_DSN", "TOKEN_KEY", "TOKEN_TTL", "COOKIE_SECURE",
	"STORE_TIMEOUT", "WEATHER_API_KEY", "WEATHER_BASE_URL", "WEATHER_TIMEOUT",
	"REDIS_ADDR", "WEATHER_CACHE_TTL", "CORS_ORIGIN", "LOG_LEVEL",
}

// isolateEnv clears the variables parseEnv reads and points dotenvFile at
// a path that does not exist. Values are restored on cleanup.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}

	orig := dotenvFile
	dotenvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { dotenvFile = orig })
}

func TestParseEnv_AllVariables(t *testing.T) {
	isolateEnv(t)

	t.Setenv("ADDRESS", ":1234")
	t.Setenv("DATABASE_DSN", "postgres://db")
	t.Setenv("TOKEN_KEY", "k")
	t.Setenv("TOKEN_TTL", "30")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("WEATHER_API_KEY", "wkey")
	t.Setenv("WEATHER_BASE_URL", "http://weather.local")
	t.Setenv("WEATHER_TIMEOUT", "4s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("WEATHER_CACHE_TTL", "1m")
	t.Setenv("CORS_ORIGIN", "http://localhost:5173")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := defaultConfig()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":1234", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
	assert.Equal(t, "k", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "wkey", cfg.WeatherAPIKey)
	assert.Equal(t, "http://weather.local", cfg.WeatherBaseURL)
	assert.Equal(t, 4*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseEnv_TokenTTLDurationString(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TOKEN_TTL", "90s")

	cfg := defaultConfig()
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, 90*time.Second, cfg.TokenValidityDuration)
}

func TestParseEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TOKEN_TTL", "forever"},
		{"COOKIE_SECURE", "maybe"},
		{"WEATHER_TIMEOUT", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tt.key, tt.value)

			err := parseEnv(defaultConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParseEnv_DotenvFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOKEN_KEY=dotenv-secret\nREDIS_ADDR=cache:6379\n"), 0o600))
	dotenvFile = path

	// godotenv sets process variables; make sure they do not leak.
	t.Cleanup(func() {
		os.Unsetenv("TOKEN_KEY")
		os.Unsetenv("REDIS_ADDR")
	})
	t.Setenv("REDIS_ADDR", "env-wins:6379")

	cfg := defaultConfig()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
	assert.Equal(t, "env-wins:6379", cfg.RedisAddr)
}

func TestParseEnv_NoVariablesNoChanges(t *testing.T) {
	isolateEnv(t)

	cfg := defaultConfig()
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, defaultConfig(), cfg)
}
