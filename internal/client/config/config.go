package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
)

// Config holds runtime settings for the SeNiko CLI.
//
// Fields:
//   - ServerURL: base URL of the SeNiko HTTP API.
//   - Timeout: per-request timeout of the HTTP client.
type Config struct {
	ServerURL string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 10 * time.Second
}

// ApplyEnv overlays c with SENIKO_SERVER_URL and SENIKO_CLIENT_TIMEOUT when
// they are set. An unparsable timeout is ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(common.EnvPrefix + "SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(common.EnvPrefix + "CLIENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}
