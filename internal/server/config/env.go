package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays SENIKO_* environment variables. A dotenv file named by
// -e/-env-file is loaded first, otherwise ".env" in the working directory is
// tried. godotenv never overrides variables already set in the process.
//
//	SENIKO_HTTP_ADDR, SENIKO_DATABASE_DSN, SENIKO_JWT_SECRET_KEY,
//	SENIKO_JWT_ISSUER, SENIKO_JWT_AUDIENCE, SENIKO_TOKEN_LIFETIME (duration),
//	SENIKO_BCRYPT_COST, SENIKO_RATE_LIMIT_PERMITS,
//	SENIKO_RATE_LIMIT_WINDOW (duration), SENIKO_REDIS_URL,
//	SENIKO_CORS_ALLOWED_ORIGINS, SENIKO_TRUSTED_PROXIES,
//	SENIKO_LOG_LEVEL, SENIKO_GIN_MODE
//
// Values that fail to parse panic, like a malformed JSON file does.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(args()); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.JWTSecretKey, "JWT_SECRET_KEY")
	envString(&config.JWTIssuer, "JWT_ISSUER")
	envString(&config.JWTAudience, "JWT_AUDIENCE")
	envString(&config.RedisURL, "REDIS_URL")
	envString(&config.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	envString(&config.TrustedProxies, "TRUSTED_PROXIES")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.GinMode, "GIN_MODE")

	envDuration(&config.TokenLifetime, "TOKEN_LIFETIME")
	envDuration(&config.RateLimitWindow, "RATE_LIMIT_WINDOW")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envInt(&config.RateLimitPermits, "RATE_LIMIT_PERMITS")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(common.EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(common.EnvPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(common.EnvPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}
