package config

import (
	"errors"
	"fmt"
	"os"
)

// WriteDefault writes the commented default configuration to Path() unless a
// file already exists there. The file is written with 0600 permissions.
func WriteDefault() error {
	path := Path()

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := EnsureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
