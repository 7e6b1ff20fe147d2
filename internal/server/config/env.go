package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded before reading the process environment. Variables
// already present in the environment are not overwritten by it.
var dotenvFile = ".env"

// parseEnv overlays values from environment variables.
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	TOKEN_KEY          JWT HMAC secret
//	TOKEN_TTL          token validity, minutes or a duration string ("30m")
//	COOKIE_SECURE      bool
//	STORE_TIMEOUT      duration
//	WEATHER_API_KEY    upstream API key
//	WEATHER_BASE_URL   upstream base URL
//	WEATHER_TIMEOUT    duration
//	REDIS_ADDR         host:port of the weather cache
//	WEATHER_CACHE_TTL  duration
//	CORS_ORIGIN        allowed browser origin
//	LOG_LEVEL          debug|info|warn|error
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	envString("ADDRESS", &config.EndpointAddrHTTP)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("TOKEN_KEY", &config.SecretKey)
	envString("WEATHER_API_KEY", &config.WeatherAPIKey)
	envString("WEATHER_BASE_URL", &config.WeatherBaseURL)
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("CORS_ORIGIN", &config.CORSOrigin)
	envString("LOG_LEVEL", &config.LogLevel)

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		d, err := parseMinutes(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		config.CookieSecure = b
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"STORE_TIMEOUT", &config.StoreTimeout},
		{"WEATHER_TIMEOUT", &config.WeatherTimeout},
		{"WEATHER_CACHE_TTL", &config.WeatherCacheTTL},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// parseMinutes accepts a bare integer (minutes) or a Go duration string.
func parseMinutes(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	return time.ParseDuration(v)
}
