// Package config provides the vkubridge configuration file types and the
// code to load, validate and write them. The file is YAML.
package config

import "time"

// Config is the top-level configuration, stored at
// ~/.config/vkubridge/config.yaml.
type Config struct {
	// Interpreter runs every script. It is resolved through PATH.
	Interpreter string `yaml:"interpreter,omitempty"`

	// Timeout bounds a single script run, as a Go duration string.
	// Empty or "0" waits for the script unconditionally.
	Timeout string `yaml:"timeout,omitempty"`

	Server ServerConfig `yaml:"server,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	Audit  AuditConfig  `yaml:"audit,omitempty"`
}

// ServerConfig contains the transports the front-end connects to.
type ServerConfig struct {
	// Socket is the Unix socket path. Empty disables the socket transport.
	Socket string `yaml:"socket,omitempty"`

	// HTTPListen is the host:port of the HTTP transport. Empty disables it.
	HTTPListen string `yaml:"http_listen,omitempty"`

	// SecretEnv names the environment variable holding the shared secret
	// clients must present. An unset or empty variable disables the check.
	SecretEnv string `yaml:"secret_env,omitempty"`
}

// LogConfig contains operational logging settings.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// AuditConfig contains invocation audit log settings.
type AuditConfig struct {
	// File receives one line per invocation event. Empty disables auditing.
	File string `yaml:"file,omitempty"`
}

// TimeoutDuration returns Timeout as a duration. Invalid values, which
// Validate rejects, yield zero.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
