package config

// DefaultSecretEnv is the environment variable read for the shared secret.
const DefaultSecretEnv = "VKUBRIDGE_SECRET"

// DefaultConfig returns a Config with all defaults populated. Paths still
// contain ~ and are expanded by Load.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: "python",
		Server: ServerConfig{
			Socket:     "~/.local/share/vkubridge/bridge.sock",
			HTTPListen: "127.0.0.1:7421",
			SecretEnv:  DefaultSecretEnv,
		},
		Log: LogConfig{
			File:  "~/.local/state/vkubridge/vkubridge.log",
			Level: "info",
		},
		Audit: AuditConfig{
			File: "~/.local/state/vkubridge/audit.log",
		},
	}
}

// defaultConfigTemplate is written on first run so users have a documented
// starting point.
const defaultConfigTemplate = `# vkubridge configuration

# Interpreter used to run every script, resolved through PATH.
interpreter: python

# Maximum run time of a single script (e.g. "30s"). Leave empty to wait
# for scripts indefinitely.
timeout: ""

server:
  # Unix socket the desktop front-end connects to. Empty disables it.
  socket: ~/.local/share/vkubridge/bridge.sock
  # HTTP transport for web front-ends. Empty disables it.
  http_listen: 127.0.0.1:7421
  # Environment variable holding the shared secret clients must send.
  secret_env: VKUBRIDGE_SECRET

log:
  file: ~/.local/state/vkubridge/vkubridge.log
  # debug, info, warn or error
  level: info

audit:
  # One line per command invocation. Empty disables auditing.
  file: ~/.local/state/vkubridge/audit.log
`
