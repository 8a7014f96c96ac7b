package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/vkutk/bridge/internal/clog"
)

// Load reads the configuration at path, or at Path() when path is empty.
//
// A missing file yields DefaultConfig(). When the default path is missing, a
// commented default file is written there for the user to edit. A file that
// exists but cannot be read, parsed or validated is an error. All paths
// containing ~ are expanded.
func Load(path string) (*Config, error) {
	usingDefault := path == ""
	if usingDefault {
		path = Path()
	}
	clog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		clog.Debug("config: %s not found, using defaults", path)
		if usingDefault {
			if writeErr := WriteDefault(); writeErr != nil {
				clog.Warn("config: failed to create default config: %v", writeErr)
			}
		}
		cfg := DefaultConfig()
		expandPaths(cfg)
		return cfg, nil
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	expandPaths(cfg)
	return cfg, nil
}

func expandPaths(cfg *Config) {
	cfg.Server.Socket = ExpandHome(cfg.Server.Socket)
	cfg.Log.File = ExpandHome(cfg.Log.File)
	cfg.Audit.File = ExpandHome(cfg.Audit.File)
}
