package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the vkubridge configuration directory, ~/.config/vkubridge or
// $XDG_CONFIG_HOME/vkubridge when that variable is set.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "~/.config"
	}
	return filepath.Join(ExpandHome(base), "vkubridge")
}

// EnsureDir creates the configuration directory with user-only permissions.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// Path returns the default configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// ExpandHome replaces a leading ~ in path with the user's home directory.
// If the home directory cannot be determined, the path is returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
