package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.Timeout)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SENIKO_SERVER_URL", "https://auth.example.com")
	t.Setenv("SENIKO_CLIENT_TIMEOUT", "3s")

	var c Config
	c.LoadDefaults()
	c.ApplyEnv()
	assert.Equal(t, "https://auth.example.com", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.Timeout)

	t.Setenv("SENIKO_CLIENT_TIMEOUT", "soon")
	c.ApplyEnv()
	assert.Equal(t, 3*time.Second, c.Timeout)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"server_url":"http://10.0.0.5:8080","timeout":"2s"}`), 0o600))

	var c Config
	c.LoadDefaults()
	require.NoError(t, LoadJSON(&c, p))
	assert.Equal(t, "http://10.0.0.5:8080", c.ServerURL)
	assert.Equal(t, 2*time.Second, c.Timeout)
}

func TestLoadJSON_PartialKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"timeout":1000000000}`), 0o600))

	var c Config
	c.LoadDefaults()
	require.NoError(t, LoadJSON(&c, p))
	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestLoadJSON_Errors(t *testing.T) {
	var c Config
	assert.Error(t, LoadJSON(&c, filepath.Join(t.TempDir(), "missing.json")))

	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{`), 0o600))
	assert.Error(t, LoadJSON(&c, p))
}
