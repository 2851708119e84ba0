package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/seniko/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-i string   JWT issuer
//	-u string   JWT audience
//	-t int      token lifetime, minutes
//	-k int      bcrypt cost
//	-l int      rate limit permits per window
//	-w int      rate limit window, seconds
//	-r string   Redis URL for the rate limiter
//	-o string   CORS allowed origins, comma separated
//	-p string   trusted proxies (IPs or CIDRs), comma separated
//	-v string   log level
//	-m string   gin mode
//
// os.Args is first filtered to the flags handled here, so -c and -e (read
// by the JSON and env layers) do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(args(), []string{
		"-a", "-d", "-s", "-i", "-u", "-t", "-k", "-l", "-w", "-r", "-o", "-p", "-v", "-m",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecretKey, "s", config.JWTSecretKey, "jwt secret key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "jwt issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "jwt audience")

	tokenLifetime := fs.Int("t", int(config.TokenLifetime.Minutes()), "token lifetime (in minutes)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.IntVar(&config.RateLimitPermits, "l", config.RateLimitPermits, "rate limit permits per window")
	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Seconds()), "rate limit window (in seconds)")

	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for the rate limiter")
	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins")
	fs.StringVar(&config.TrustedProxies, "p", config.TrustedProxies, "trusted proxies")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute/second granularity would truncate values from JSON or env,
	// so the durations change only when their flag was actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenLifetime = time.Duration(*tokenLifetime) * time.Minute
		case "w":
			config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Second
		}
	})
}
