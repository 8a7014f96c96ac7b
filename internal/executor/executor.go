// Package executor provides the interface and types for running an external
// interpreter on the host and capturing its output.
package executor

import "context"

// Executor runs a command to completion and reports its outcome.
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) ExecuteResponse
}

// ExecuteRequest describes a single command invocation.
// The command is resolved through PATH; arguments are passed verbatim.
type ExecuteRequest struct {
	Command   string   `json:"command"`
	Args      []string `json:"args"`
	TimeoutMs int      `json:"timeout_ms,omitempty"`
}

// ExecuteResponse contains the captured result of a command.
type ExecuteResponse struct {
	Status   string `json:"status"` // "completed", "timeout", "canceled", "error"
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Status constants for ExecuteResponse.Status.
const (
	StatusCompleted = "completed"
	StatusTimeout   = "timeout"
	StatusCanceled  = "canceled"
	StatusError     = "error"
)

// Succeeded reports whether the command ran and exited with status zero.
func (r ExecuteResponse) Succeeded() bool {
	return r.Status == StatusCompleted && r.ExitCode == 0
}
