// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "iconpick"

// GetXDGConfigHome returns XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	if xdgConfigHome != "" {
		return xdgConfigHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}

	return ""
}

// GetXDGDataHome returns XDG data directory.
func GetXDGDataHome() string {
	return GetXDGDataHomeWithEnv(os.Getenv("XDG_DATA_HOME"))
}

// GetXDGDataHomeWithEnv returns XDG data directory with custom environment override for testing.
func GetXDGDataHomeWithEnv(xdgDataHome string) string {
	if xdgDataHome != "" {
		return xdgDataHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}

	return ""
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/iconpick/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(GetXDGConfigHome(), AppName, "config.toml")
}

// DefaultDataDir returns $XDG_DATA_HOME/iconpick.
func DefaultDataDir() string {
	return filepath.Join(GetXDGDataHome(), AppName)
}

// DefaultPacksDir returns $XDG_DATA_HOME/iconpick/packs.
func DefaultPacksDir() string {
	return filepath.Join(DefaultDataDir(), "packs")
}

// ExpandPath expands ~ and XDG variables.
func ExpandPath(path string) string {
	return ExpandPathWithEnv(path, "", "")
}

// ExpandPathWithEnv expands paths with custom XDG environment variables for testing.
func ExpandPathWithEnv(path, xdgConfigHome, xdgDataHome string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	if after, found := strings.CutPrefix(path, "$XDG_CONFIG_HOME"); found {
		configHome := xdgConfigHome
		if configHome == "" {
			configHome = GetXDGConfigHome()
		}

		return configHome + after
	}

	if after, found := strings.CutPrefix(path, "$XDG_DATA_HOME"); found {
		dataHome := xdgDataHome
		if dataHome == "" {
			dataHome = GetXDGDataHome()
		}

		return dataHome + after
	}

	return path
}
