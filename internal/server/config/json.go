package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/skywatch/internal/flagx"
	"github.com/dmitrijs2005/skywatch/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// use timex.Duration so both "1s" strings and integer nanoseconds parse.
// Absent keys leave the current value untouched; CookieSecure is a pointer
// so an explicit false can be told apart from a missing key.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CookieSecure          *bool          `json:"cookie_secure"`
	StoreTimeout          timex.Duration `json:"store_timeout"`
	WeatherAPIKey         string         `json:"weather_api_key"`
	WeatherBaseURL        string         `json:"weather_base_url"`
	WeatherTimeout        timex.Duration `json:"weather_timeout"`
	RedisAddr             string         `json:"redis_addr"`
	WeatherCacheTTL       timex.Duration `json:"weather_cache_ttl"`
	CORSOrigin            string         `json:"cors_origin"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.WeatherAPIKey, c.WeatherAPIKey)
	setString(&config.WeatherBaseURL, c.WeatherBaseURL)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.WeatherTimeout.Duration != 0 {
		config.WeatherTimeout = c.WeatherTimeout.Duration
	}
	if c.WeatherCacheTTL.Duration != 0 {
		config.WeatherCacheTTL = c.WeatherCacheTTL.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
