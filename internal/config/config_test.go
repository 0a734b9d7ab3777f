package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  transport: sse
  port: 9000
resolve:
  gatewayUrl: http://127.0.0.1:20000
timeouts:
  exec: 2m
logLevel: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, cfg.Server.Transport)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:20000", cfg.Resolve.GatewayURL)
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Exec)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Queue, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad transport", func(c *Config) { c.Server.Transport = "carrier-pigeon" }, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, false},
		{"empty gateway", func(c *Config) { c.Resolve.GatewayURL = "" }, false},
		{"negative timeout", func(c *Config) { c.Timeouts.Exec = -time.Second }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
