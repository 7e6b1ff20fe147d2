package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes (0 disables exp)
//	-k bool     Secure attribute on the session cookie
//	-w string   weather API key
//	-u string   weather API base URL
//	-r string   Redis address for the weather cache
//	-o string   allowed CORS origin
//	-l string   log level
//
// Arguments are first narrowed with flagx.FilterArgs so that -c/-config
// and unrelated flags do not trip the parser.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args,
		[]string{"-a", "-d", "-s", "-t", "-w", "-u", "-r", "-o", "-l"},
		[]string{"-k"},
	)

	fs := flag.NewFlagSet("skywatch", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes), 0 for no expiry")
	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "secure session cookie")
	fs.StringVar(&config.WeatherAPIKey, "w", config.WeatherAPIKey, "weather API key")
	fs.StringVar(&config.WeatherBaseURL, "u", config.WeatherBaseURL, "weather API base URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for weather cache")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	// only an explicit -t overrides the current value
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenTTL) * time.Minute
		}
	})
	return nil
}
