// Package config loads the bridge configuration from YAML with sensible
// defaults, and watches the file for runtime-tunable changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio      = "stdio"
	TransportSSE        = "sse"
	TransportStreamable = "streamable-http"
)

// Config is the root configuration of the bridge.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Resolve  ResolveConfig `yaml:"resolve"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	LogLevel string        `yaml:"logLevel"`
}

// ServerConfig controls how the MCP surface is exposed.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"`
}

// ResolveConfig locates the scripting gateway of the Resolve instance.
type ResolveConfig struct {
	GatewayURL string `yaml:"gatewayUrl"`
}

// TimeoutConfig bounds the dispatcher's waits. Both are reloadable at
// runtime through the config watcher.
type TimeoutConfig struct {
	Queue time.Duration `yaml:"-"`
	Exec  time.Duration `yaml:"-"`
}

// UnmarshalYAML accepts Go duration strings ("45s", "2m") and overwrites
// only the fields the file provides, leaving defaults in place.
func (t *TimeoutConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Queue string `yaml:"queue"`
		Exec  string `yaml:"exec"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Queue != "" {
		d, err := time.ParseDuration(raw.Queue)
		if err != nil {
			return fmt.Errorf("timeouts.queue: %w", err)
		}
		t.Queue = d
	}
	if raw.Exec != "" {
		d, err := time.ParseDuration(raw.Exec)
		if err != nil {
			return fmt.Errorf("timeouts.exec: %w", err)
		}
		t.Exec = d
	}
	return nil
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8090,
			Transport: TransportStdio,
		},
		Resolve: ResolveConfig{
			GatewayURL: "http://127.0.0.1:18090",
		},
		Timeouts: TimeoutConfig{
			Queue: 30 * time.Second,
			Exec:  60 * time.Second,
		},
		LogLevel: "info",
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "resolvemcp", "config.yaml")
}

// Load reads the file at path over the defaults. A missing file is not an
// error: the defaults stand. A malformed file is an error; silently running
// with half a config is worse than failing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamable:
	default:
		return fmt.Errorf("unknown transport %q", c.Server.Transport)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Resolve.GatewayURL == "" {
		return fmt.Errorf("resolve.gatewayUrl cannot be empty")
	}
	if c.Timeouts.Queue <= 0 || c.Timeouts.Exec <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
