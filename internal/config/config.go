// Package config holds the application configuration, read from an
// optional TOML file.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-enhance/internal/enhance"
)

type config struct {
	Main       configMain     `toml:"main"`
	Canvas     configCanvas   `toml:"canvas"`
	Output     configOutput   `toml:"output"`
	Operations enhance.Params `toml:"operations"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
}

// configCanvas is the size every loaded image is normalized to. A zero
// width or height keeps the decoded size.
type configCanvas struct {
	Width     int `toml:"width"`
	Height    int `toml:"height"`
	MaxPixels int `toml:"max_pixels"`
}

type configOutput struct {
	JPEGQuality int `toml:"jpeg_quality"`
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable sets some default values that might be overwritten
// by a configuration file.
var Config = defaults()

// Reset restores the built-in configuration.
func Reset() {
	Config = defaults()
}

func defaults() config {
	return config{
		Main: configMain{
			LogLevel: "info",
		},
		Canvas: configCanvas{
			Width:     500,
			Height:    500,
			MaxPixels: 30000000,
		},
		Output: configOutput{
			JPEGQuality: 95,
		},
		Operations: enhance.DefaultParams(),
	}
}

// LoadConfiguration loads the configuration file into Config. Settings
// missing from the file keep their current value. An empty path is a no-op.
// Config is replaced only when the whole file decodes and validates.
func LoadConfiguration(configPath string) error {
	if configPath == "" {
		return nil
	}

	fd, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	cfg := Config.clone()
	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&cfg); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}

	Config = cfg
	log.WithField("path", configPath).Debug("configuration loaded")
	return nil
}

// Validate checks every section of Config.
func Validate() error {
	return Config.validate()
}

func (c config) clone() config {
	out := c
	out.Operations = c.Operations.Clone()
	return out
}

func (c config) validate() error {
	if _, err := log.ParseLevel(c.Main.LogLevel); err != nil {
		return fmt.Errorf("main.log_level: %w", err)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas: negative size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.MaxPixels < 0 {
		return fmt.Errorf("canvas.max_pixels: negative value %d", c.Canvas.MaxPixels)
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("output.jpeg_quality: %d not in 1..100", q)
	}
	for _, op := range enhance.Ops() {
		if err := c.Operations.Validate(op); err != nil {
			return fmt.Errorf("operations: %w", err)
		}
	}
	return nil
}

// Encode writes Config as TOML.
func Encode(w io.Writer) error {
	return toml.NewEncoder(w).
		ArraysWithOneElementPerLine(false).
		Indentation("  ").
		Order(toml.OrderPreserve).
		Encode(Config)
}
