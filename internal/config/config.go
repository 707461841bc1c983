// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads default settings for the qr commands from a
// YAML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	qr "github.com/unixdj/qrgen"
)

// Config represents the configuration file
// (~/.config/qrgen/config.yaml).  Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	Level      string   `yaml:"level"`
	Mode       string   `yaml:"mode"`
	Scale      *int     `yaml:"scale"`
	Margin     *int     `yaml:"margin"`
	Format     string   `yaml:"format"`
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Unit       string   `yaml:"unit"`
	Ratio      *float64 `yaml:"ratio"`

	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

// Server holds HTTP service settings.
type Server struct {
	Address     string        `yaml:"address"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	MaxContent  int           `yaml:"max_content"`
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// Service defaults.
const (
	DefaultAddress     = "127.0.0.1:8080"
	DefaultReadTimeout = 30 * time.Second
	DefaultMaxContent  = 4096
)

// Path returns the default configuration file path, or "" if the
// user configuration directory is unknown.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qrgen", "config.yaml")
}

// Load reads the configuration file at path, or at Path() if path is
// empty.  A missing file yields a zero Config.
func Load(path string) (Config, error) {
	if path == "" {
		if path = Path(); path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	} else if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse parses and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the values set in cfg are usable.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Level != "" {
		if _, err := qr.ParseLevel(cfg.Level); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := qr.ParseMode(cfg.Mode); err != nil {
		errs = append(errs, err)
	}
	if cfg.Format != "" {
		if _, err := qr.LookupFormat(cfg.Format); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range []string{cfg.Foreground, cfg.Background} {
		if s != "" {
			if _, err := ParseColor(s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if cfg.Scale != nil && *cfg.Scale < 1 {
		errs = append(errs, fmt.Errorf("scale %d: must be positive", *cfg.Scale))
	}
	if cfg.Margin != nil && *cfg.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin %d: must not be negative", *cfg.Margin))
	}
	if cfg.Ratio != nil && *cfg.Ratio <= 0 {
		errs = append(errs, fmt.Errorf("ratio %g: must be positive", *cfg.Ratio))
	}
	if cfg.Server.MaxContent < 0 {
		errs = append(errs, fmt.Errorf("server.max_content %d: must not be negative",
			cfg.Server.MaxContent))
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: must be text or json",
			cfg.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Palette returns the configured colours, or nil if neither is set.
// An unset colour defaults to white background or black foreground.
func (cfg *Config) Palette() (*[2]color.Color, error) {
	if cfg.Foreground == "" && cfg.Background == "" {
		return nil, nil
	}
	pal := [2]color.Color{color.White, color.Black}
	for i, s := range []string{cfg.Background, cfg.Foreground} {
		if s == "" {
			continue
		}
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		pal[i] = c
	}
	return &pal, nil
}

// ParseColor parses a colour given as 3, 4, 6 or 8 hex digits
// (RGB, RGBA, RRGGBB, RRGGBBAA), optionally prefixed by "#", or as an
// SVG colour name.  Spaces and case are ignored in names.
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA(c), nil
	}
	hex := strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(hex) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%q: bad colour spec", s)
	}
	return color.NRGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}
