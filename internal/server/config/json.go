package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/seniko/internal/flagx"
	"github.com/dmitrijs2005/seniko/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields use timex.Duration so both "24h" and integer nanoseconds parse.
// Pointers distinguish "absent" from "zero" for numeric fields.
type JsonConfig struct {
	HTTPAddr           string          `json:"http_addr"`
	DatabaseDSN        string          `json:"database_dsn"`
	JWTSecretKey       string          `json:"jwt_secret_key"`
	JWTIssuer          string          `json:"jwt_issuer"`
	JWTAudience        string          `json:"jwt_audience"`
	TokenLifetime      *timex.Duration `json:"token_lifetime"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	RateLimitPermits   *int            `json:"rate_limit_permits"`
	RateLimitWindow    *timex.Duration `json:"rate_limit_window"`
	RedisURL           string          `json:"redis_url"`
	CORSAllowedOrigins string          `json:"cors_allowed_origins"`
	TrustedProxies     string          `json:"trusted_proxies"`
	LogLevel           string          `json:"log_level"`
	GinMode            string          `json:"gin_mode"`
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file keep their current value. An unreadable or malformed file
// panics, as a half-applied config is worse than none.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag(args())
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.JWTSecretKey, c.JWTSecretKey)
	setString(&config.JWTIssuer, c.JWTIssuer)
	setString(&config.JWTAudience, c.JWTAudience)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	setString(&config.TrustedProxies, c.TrustedProxies)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.GinMode, c.GinMode)

	if c.TokenLifetime != nil {
		config.TokenLifetime = c.TokenLifetime.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RateLimitPermits != nil {
		config.RateLimitPermits = *c.RateLimitPermits
	}
	if c.RateLimitWindow != nil {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
