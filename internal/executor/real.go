package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// waitDelay bounds how long Execute waits for the output pipes to close after
// the process group has been killed.
const waitDelay = 2 * time.Second

// RealExecutor executes commands using os/exec.
type RealExecutor struct{}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// Execute runs a command, blocking until it exits, and returns the captured
// output. Without a TimeoutMs the process is waited for unconditionally.
func (e *RealExecutor) Execute(ctx context.Context, req ExecuteRequest) ExecuteResponse {
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	// Run the script in its own process group so that a timeout also kills
	// the children it started, which would otherwise hold stdout open.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return ExecuteResponse{
			Status:   StatusCompleted,
			ExitCode: 0,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ExecuteResponse{
			Status:   StatusTimeout,
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Error:    "command timed out",
		}
	case errors.Is(ctx.Err(), context.Canceled):
		return ExecuteResponse{
			Status:   StatusCanceled,
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Error:    "command canceled",
		}
	}

	// Exited, but a background child kept the output pipes open past
	// waitDelay. Report what was captured up to that point.
	if errors.Is(err, exec.ErrWaitDelay) {
		return ExecuteResponse{
			Status:   StatusCompleted,
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	// Ran but returned non-zero
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExecuteResponse{
			Status:   StatusCompleted,
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	// Never started: missing interpreter, permission denied, etc.
	return ExecuteResponse{
		Status:   StatusError,
		ExitCode: -1,
		Error:    err.Error(),
	}
}
