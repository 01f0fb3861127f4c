// Package config loads the engine configuration from TOML.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// Environment variables that override file values.
const (
	EnvLogLevel  = "AREPY_LOG_LEVEL"
	EnvLogFormat = "AREPY_LOG_FORMAT"
)

var ErrInvalidConfig = eris.New("invalid config")

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Engine  EngineConfig  `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Vsync      bool   `toml:"vsync"`
	Fullscreen bool   `toml:"fullscreen"`
	MaxFPS     int    `toml:"max_fps"` // 0 = unlimited
}

type EngineConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`      // headless loop period
	ParallelAsync bool          `toml:"parallel_async"` // run ASYNC_UPDATE systems concurrently
	MaxParallel   int           `toml:"max_parallel"`
	DebugUI       bool          `toml:"debug_ui"`
	Assets        string        `toml:"assets"` // YAML asset manifest, optional
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, eris.Wrapf(err, "read config %s", path)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "parse config %s", path)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of the defaults.
func Parse(doc string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(doc, cfg); err != nil {
		return nil, eris.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "arepy",
			Vsync:  true,
			MaxFPS: 60,
		},
		Engine: EngineConfig{
			TickRate:    time.Second / 60,
			MaxParallel: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return eris.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.MaxFPS < 0 {
		return eris.Wrapf(ErrInvalidConfig, "max_fps %d", c.Window.MaxFPS)
	}
	if c.Engine.TickRate <= 0 {
		return eris.Wrapf(ErrInvalidConfig, "tick_rate %s", c.Engine.TickRate)
	}
	if c.Engine.MaxParallel < 0 {
		return eris.Wrapf(ErrInvalidConfig, "max_parallel %d", c.Engine.MaxParallel)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return eris.Wrapf(ErrInvalidConfig, "logging format %q", c.Logging.Format)
	}
	return nil
}
