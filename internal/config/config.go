// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads iconpick's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Presentation defaults, matching the launcher's original grid.
const (
	DefaultColumns       = 4
	DefaultItemSpacing   = 1
	DefaultIconSize      = 14
	DefaultMargin        = 1
	DefaultCacheSize     = 64
	DefaultMaxIconBytes  = 4 << 20
	DefaultMaxIconPixels = 1024 * 1024
	ThemeDark            = "dark"
	ThemeLight           = "light"
)

// Config holds presentation parameters and locations.
type Config struct {
	Columns       int    `toml:"columns"`
	ItemSpacing   int    `toml:"item_spacing"`
	IconSize      int    `toml:"icon_size"`
	Margin        int    `toml:"margin"`
	PacksDir      string `toml:"packs_dir"`
	DataDir       string `toml:"data_dir"`
	CacheSize     int    `toml:"cache_size"`
	MaxIconBytes  int64  `toml:"max_icon_bytes"`
	MaxIconPixels int    `toml:"max_icon_pixels"`
	Theme         string `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Columns:       DefaultColumns,
		ItemSpacing:   DefaultItemSpacing,
		IconSize:      DefaultIconSize,
		Margin:        DefaultMargin,
		PacksDir:      DefaultPacksDir(),
		DataDir:       DefaultDataDir(),
		CacheSize:     DefaultCacheSize,
		MaxIconBytes:  DefaultMaxIconBytes,
		MaxIconPixels: DefaultMaxIconPixels,
		Theme:         ThemeDark,
	}
}

// Load reads the config file at path over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.PacksDir = ExpandPath(cfg.PacksDir)
	cfg.DataDir = ExpandPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Columns < 1:
		return fmt.Errorf("columns must be at least 1, got %d: %w", c.Columns, ErrInvalidConfig)
	case c.IconSize < 4:
		return fmt.Errorf("icon_size must be at least 4, got %d: %w", c.IconSize, ErrInvalidConfig)
	case c.ItemSpacing < 0 || c.Margin < 0:
		return fmt.Errorf("item_spacing and margin must not be negative: %w", ErrInvalidConfig)
	case c.CacheSize < 0:
		return fmt.Errorf("cache_size must not be negative: %w", ErrInvalidConfig)
	case c.Theme != ThemeDark && c.Theme != ThemeLight:
		return fmt.Errorf("theme must be %q or %q, got %q: %w", ThemeDark, ThemeLight, c.Theme, ErrInvalidConfig)
	}

	return nil
}

// Save writes cfg as TOML, creating the parent directory.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
