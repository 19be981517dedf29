// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config holds the settings of the quad demo application and
// loads them from TOML.
//
// A config file only needs the keys it changes:
//
//	title = "quad"
//	width = 1280
//	height = 720
//	vsync = false
//	clear_color = "midnightblue"
//	log_level = "debug"
//
// An empty clear_color keeps quad.DefaultClearColor.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/quad"
)

// ErrInvalidConfig is returned by Validate and Load for unusable values.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the demo application configuration.
type Config struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	VSync      bool   `toml:"vsync"`
	ClearColor string `toml:"clear_color"`
	LogLevel   string `toml:"log_level"`
}

// Default returns the built-in configuration: an 800x600 window titled
// "quad" with vsync on. ClearColor is empty, so frames are cleared to
// quad.DefaultClearColor.
func Default() Config {
	return Config{
		Title:    "quad",
		Width:    800,
		Height:   600,
		VSync:    true,
		LogLevel: "info",
	}
}

// Load reads a TOML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, derr.Error())
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks the window size, the clear color and the log level.
func (c Config) Validate() error {
	var errs []error
	if err := quad.ValidateSize(c.Width, c.Height); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Color(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Color returns the parsed clear color, or nil when ClearColor is empty.
func (c Config) Color() (color.Color, error) {
	if c.ClearColor == "" {
		return nil, nil
	}
	return ParseColor(c.ClearColor)
}

// Level returns the slog level named by LogLevel. An empty value means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Options converts the configuration into context options.
func (c Config) Options() ([]quad.Option, error) {
	clr, err := c.Color()
	if err != nil {
		return nil, err
	}
	opts := []quad.Option{quad.WithVSync(c.VSync)}
	if clr != nil {
		opts = append(opts, quad.WithClearColor(clr))
	}
	return opts, nil
}
