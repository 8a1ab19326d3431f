// Package config loads the shell's process configuration from a TOML file
// with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPath is read when -config is not given.
const DefaultPath = "/etc/netshell/netshell.toml"

// Config is the shell's process configuration.
type Config struct {
	Hostname      string `toml:"hostname"`
	HistoryFile   string `toml:"history_file"`
	StartupConfig string `toml:"startup_config"`
	DeviceModel   string `toml:"device_model"`
	Version       string `toml:"version"`
	Keyring       bool   `toml:"keyring"`
	DisableClock  bool   `toml:"disable_clock"`
	ArchiveSize   int    `toml:"archive_size"`
	DHCPTimeout   string `toml:"dhcp_timeout"`

	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// LogConfig controls where slog output goes.
type LogConfig struct {
	File     string `toml:"file"`
	Level    string `toml:"level"`
	MaxSize  int64  `toml:"max_size"`
	MaxFiles int    `toml:"max_files"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Hostname:      "Network",
		HistoryFile:   "history.txt",
		StartupConfig: "startup-config.conf",
		DeviceModel:   "PNF",
		Version:       "1.0.0",
		ArchiveSize:   10,
		DHCPTimeout:   "10s",
		Log:           LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no config file, using defaults", "path", path)
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to decode TOML file: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies NETSHELL_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NETSHELL_HOSTNAME"); v != "" {
		c.Hostname = v
	}
	if v := os.Getenv("NETSHELL_HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv("NETSHELL_METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
	}
	if v := os.Getenv("NETSHELL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that the shell cannot repair at runtime.
func (c *Config) Validate() error {
	if c.Hostname == "" {
		return errors.New("hostname must not be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.ArchiveSize < 0 {
		return fmt.Errorf("archive_size must be >= 0, got %d", c.ArchiveSize)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
