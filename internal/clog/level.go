// Package clog provides leveled operational logging for vkubridge.
// This is distinct from user-facing output (see internal/term).
//
// Log levels:
//   - Debug: per-invocation detail, only with --debug
//   - Info: server lifecycle events
//   - Warn: unexpected conditions that don't prevent operation
//   - Error: failures that affect functionality
//
// File output receives every enabled level. Stderr receives Warn and Error
// only, and nothing in daemon mode.
package clog

import "strings"

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level string (case-insensitive).
// Returns LevelInfo if the string is not recognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "err":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug", "info", "warn", "warning", "error", "err":
		return true
	}
	return false
}
