// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDatabasePath is where the inventory database lives unless
// overridden in config.
const DefaultDatabasePath = "$HOME/.local/share/curio/curio.db"

// DefaultSettingsPath holds persisted UI settings (view mode, last sort).
const DefaultSettingsPath = "$HOME/.config/curio/settings.json"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
