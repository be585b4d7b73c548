package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/renderer2d"
	"gopkg.in/yaml.v3"
)

// Config is the sandbox's YAML file. Missing keys keep their defaults.
type Config struct {
	Window   core.Config       `yaml:"window"`
	Renderer renderer2d.Config `yaml:"renderer"`
	Font     FontConfig        `yaml:"font"`
	Image    string            `yaml:"image"`
	LogLevel string            `yaml:"log_level"`
	// ProfileEvents sizes the profiler ring (only with -tags profile).
	ProfileEvents int `yaml:"profile_events"`
}

type FontConfig struct {
	// Path to a TTF/OTF file; empty uses the bundled Go Regular.
	Path string  `yaml:"path"`
	Size float32 `yaml:"size"`
}

func defaultConfig() Config {
	win := core.DefaultConfig()
	win.Title = "vgrove sandbox"
	return Config{
		Window:        win,
		Renderer:      renderer2d.DefaultConfig(),
		Font:          FontConfig{Size: 18},
		LogLevel:      "info",
		ProfileEvents: 1 << 16,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font size %v must be positive", c.Font.Size)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
