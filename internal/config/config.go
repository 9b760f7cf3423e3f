// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/meshtest/internal/core"
)

// Config is the top-level static configuration.
// Maps to the `meshtest:` root key in YAML.
type Config struct {
	Interface string          `mapstructure:"interface"` // interface under test, e.g. thread-wpan0
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Log       LogConfig       `mapstructure:"log"`
}

// TimeoutsConfig contains the wait budgets of the test helpers.
type TimeoutsConfig struct {
	Join       time.Duration `mapstructure:"join"`
	Leave      time.Duration `mapstructure:"leave"`
	Callback   time.Duration `mapstructure:"callback"`
	Discovery  time.Duration `mapstructure:"discovery"`
	PacketPoll time.Duration `mapstructure:"packet_poll"`
}

// CaptureConfig contains live-capture settings.
type CaptureConfig struct {
	SnapLen    int    `mapstructure:"snap_len"`
	BufferSize int    `mapstructure:"buffer_size"`
	Filter     string `mapstructure:"filter"` // BPF expression, empty = capture all
}

// DiscoveryConfig contains DNS-SD settings.
type DiscoveryConfig struct {
	Domain      string `mapstructure:"domain"`
	ServiceType string `mapstructure:"service_type"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// configRoot is the top-level wrapper matching the YAML structure `meshtest: ...`.
type configRoot struct {
	Meshtest Config `mapstructure:"meshtest"`
}

// Load loads configuration from file.
// The YAML file uses `meshtest:` as root key; env vars use the MESHTEST_
// prefix via the key replacer (e.g., key "meshtest.log.level" → env
// "MESHTEST_LOG_LEVEL").
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Meshtest

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration used when no config file is
// given.
func Default() *Config {
	return &Config{
		Interface: "wpan0",
		Timeouts: TimeoutsConfig{
			Join:       30 * time.Second,
			Leave:      2 * time.Second,
			Callback:   time.Second,
			Discovery:  20 * time.Second,
			PacketPoll: 3 * time.Second,
		},
		Capture: CaptureConfig{
			SnapLen:    65535,
			BufferSize: 2 * 1024 * 1024,
		},
		Discovery: DiscoveryConfig{
			Domain:      "local.",
			ServiceType: "_meshcop._udp",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults sets default values for configuration.
// All keys use the "meshtest." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("meshtest.interface", "wpan0")

	v.SetDefault("meshtest.timeouts.join", "30s")
	v.SetDefault("meshtest.timeouts.leave", "2s")
	v.SetDefault("meshtest.timeouts.callback", "1s")
	v.SetDefault("meshtest.timeouts.discovery", "20s")
	v.SetDefault("meshtest.timeouts.packet_poll", "3s")

	v.SetDefault("meshtest.capture.snap_len", 65535)
	v.SetDefault("meshtest.capture.buffer_size", 2*1024*1024)

	v.SetDefault("meshtest.discovery.domain", "local.")
	v.SetDefault("meshtest.discovery.service_type", "_meshcop._udp")

	v.SetDefault("meshtest.log.level", "info")
	v.SetDefault("meshtest.log.format", "text")
	v.SetDefault("meshtest.log.outputs.file.enabled", false)
	v.SetDefault("meshtest.log.outputs.file.path", "/var/log/meshtest/meshtest.log")
	v.SetDefault("meshtest.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("meshtest.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("meshtest.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("meshtest.log.outputs.file.rotation.compress", true)
}

// Validate checks field consistency.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return fmt.Errorf("%w: interface must not be empty", core.ErrConfigInvalid)
	}
	if c.Capture.SnapLen <= 0 {
		return fmt.Errorf("%w: capture.snap_len must be positive", core.ErrConfigInvalid)
	}
	if c.Capture.BufferSize <= 0 {
		return fmt.Errorf("%w: capture.buffer_size must be positive", core.ErrConfigInvalid)
	}
	for name, d := range map[string]time.Duration{
		"timeouts.join":        c.Timeouts.Join,
		"timeouts.leave":       c.Timeouts.Leave,
		"timeouts.callback":    c.Timeouts.Callback,
		"timeouts.discovery":   c.Timeouts.Discovery,
		"timeouts.packet_poll": c.Timeouts.PacketPoll,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", core.ErrConfigInvalid, name)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", core.ErrConfigInvalid, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", core.ErrConfigInvalid, c.Log.Format)
	}
	return nil
}
