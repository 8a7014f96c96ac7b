package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vkutk/bridge/internal/clog"
)

// Validate checks that every field of cfg holds a usable value and returns an
// error naming the first field that does not.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Interpreter) == "" {
		return fmt.Errorf("interpreter: must not be empty")
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: invalid duration %q: %w", cfg.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout: must be non-negative, got %s", cfg.Timeout)
		}
	}

	if cfg.Server.HTTPListen != "" {
		if err := validateListenAddr(cfg.Server.HTTPListen); err != nil {
			return fmt.Errorf("server.http_listen: %w", err)
		}
	}

	if !clog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level: must be one of debug, info, warn, error; got %q", cfg.Log.Level)
	}

	return nil
}

// validateListenAddr accepts "host:port" and ":port" with a port in 0-65535.
func validateListenAddr(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", portStr)
	}
	return nil
}
