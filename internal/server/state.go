package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vkutk/bridge/internal/clog"
)

// DefaultStatePath returns the state file used by `vkubridge serve`.
func DefaultStatePath() string {
	return filepath.Join(clog.StateDir(), "bridge.json")
}

// State describes a running `vkubridge serve` process.
type State struct {
	PID        int       `json:"pid"`
	SocketPath string    `json:"socket_path,omitempty"`
	HTTPAddr   string    `json:"http_addr,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// SaveState writes state to path, creating the directory if needed.
func SaveState(path string, state *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// LoadState reads the state at path. It returns nil, nil when no state file
// exists.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

// RemoveState deletes the state file. A missing file is not an error.
func RemoveState(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state: %w", err)
	}
	return nil
}

// IsRunning reports whether the process recorded in state is alive.
func IsRunning(state *State) bool {
	if state == nil || state.PID <= 0 {
		return false
	}
	process, err := os.FindProcess(state.PID)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds; signal 0 probes for existence.
	return process.Signal(syscall.Signal(0)) == nil
}

// SignalStop asks the process recorded in state to shut down with SIGTERM.
// A process that is already gone is not an error; any other failure, such
// as a PID now owned by another user, is returned.
func SignalStop(state *State) error {
	if state == nil || state.PID <= 0 {
		return nil
	}
	process, err := os.FindProcess(state.PID)
	if err != nil {
		return nil //nolint:nilerr // nothing to stop
	}
	err = process.Signal(syscall.SIGTERM)
	if err == nil || errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return fmt.Errorf("failed to signal PID %d: %w", state.PID, err)
}

// CleanupStale removes the state file at path if its process is not running.
// It reports whether a stale file was removed.
func CleanupStale(path string) (bool, error) {
	state, err := LoadState(path)
	if err != nil {
		return false, err
	}
	if state == nil || IsRunning(state) {
		return false, nil
	}
	if state.SocketPath != "" {
		_ = os.Remove(state.SocketPath)
	}
	return true, RemoveState(path)
}
