// Package bridge implements the commands a desktop front-end invokes on the
// host: running a student-data script and relaying its output, and checking
// whether a saved session file is present.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vkutk/bridge/internal/audit"
	"github.com/vkutk/bridge/internal/clog"
	"github.com/vkutk/bridge/internal/executor"
)

// DefaultInterpreter is resolved through PATH when no interpreter is configured.
const DefaultInterpreter = "python"

// CapturedMessage is returned by CaptureSession when the script succeeds
// without printing anything.
const CapturedMessage = "Session captured successfully!"

const unknownError = "Unknown error"

// Service is the set of operations exposed to the front-end.
type Service interface {
	// FetchStudentInfo runs scriptPath with sessionPath and decodes its
	// stdout as JSON.
	FetchStudentInfo(ctx context.Context, scriptPath, sessionPath string) (any, error)

	// CaptureSession runs scriptPath with sessionPath and returns its stdout
	// as text.
	CaptureSession(ctx context.Context, scriptPath, sessionPath string) (string, error)

	// CheckSessionFile reports whether path exists. Lookup errors of any
	// kind are reported as false.
	CheckSessionFile(path string) bool
}

// Bridge is the Service backed by an external interpreter.
// It holds no per-call state and is safe for concurrent use.
type Bridge struct {
	executor    executor.Executor
	interpreter string
	timeout     time.Duration
	audit       *audit.Logger
	exists      func(path string) bool
}

var _ Service = (*Bridge)(nil)

// Option configures a Bridge.
type Option func(*Bridge)

// WithInterpreter sets the interpreter used to run scripts.
func WithInterpreter(name string) Option {
	return func(b *Bridge) {
		if name != "" {
			b.interpreter = name
		}
	}
}

// WithTimeout bounds how long a script may run. Zero waits unconditionally.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// WithAuditLogger records every script invocation to l.
func WithAuditLogger(l *audit.Logger) Option {
	return func(b *Bridge) {
		b.audit = l
	}
}

// New creates a Bridge that launches scripts through exec.
func New(exec executor.Executor, opts ...Option) *Bridge {
	b := &Bridge{
		executor:    exec,
		interpreter: DefaultInterpreter,
		exists:      SoftExists,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Interpreter returns the interpreter scripts are run with.
func (b *Bridge) Interpreter() string {
	return b.interpreter
}

// FetchStudentInfo implements Service.
func (b *Bridge) FetchStudentInfo(ctx context.Context, scriptPath, sessionPath string) (any, error) {
	var value any
	_, err := b.run(ctx, CommandFetchStudentInfo, scriptPath, sessionPath, func(stdout string) error {
		v, err := decodeValue(stdout)
		if err != nil {
			return ErrParse
		}
		value = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// CaptureSession implements Service.
func (b *Bridge) CaptureSession(ctx context.Context, scriptPath, sessionPath string) (string, error) {
	stdout, err := b.run(ctx, CommandCaptureSession, scriptPath, sessionPath, nil)
	if err != nil {
		return "", err
	}
	if stdout == "" {
		return CapturedMessage, nil
	}
	return stdout, nil
}

// CheckSessionFile implements Service.
func (b *Bridge) CheckSessionFile(path string) bool {
	ok := b.exists(path)
	clog.Debug("bridge: %s %q exists=%t", CommandCheckSessionFile, path, ok)
	return ok
}

// run checks that the script exists, runs it with sessionPath and returns
// stdout of a successful run. validate, when set, may reject a successful
// run's output so the failure shows up in the audit trail.
func (b *Bridge) run(ctx context.Context, command, scriptPath, sessionPath string, validate func(string) error) (string, error) {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	if !b.exists(scriptPath) {
		err := fmt.Errorf("%w at: %s", ErrScriptNotFound, scriptPath)
		clog.Debug("bridge: %s [%s] %v", command, id, err)
		_ = b.audit.LogFail(id, command, -1, err.Error(), 0)
		return "", err
	}

	_ = b.audit.LogInvoke(id, command, scriptPath, sessionPath)
	clog.Debug("bridge: %s [%s] running %s %s %s", command, id, b.interpreter, scriptPath, sessionPath)

	start := time.Now()
	resp := b.executor.Execute(ctx, executor.ExecuteRequest{
		Command:   b.interpreter,
		Args:      []string{scriptPath, sessionPath},
		TimeoutMs: timeoutMillis(b.timeout),
	})
	elapsed := time.Since(start)

	err := b.outcome(resp)
	if err == nil && validate != nil {
		err = validate(resp.Stdout)
	}
	if err != nil {
		clog.Debug("bridge: %s [%s] failed after %s: %v", command, id, elapsed, err)
		_ = b.audit.LogFail(id, command, resp.ExitCode, err.Error(), elapsed)
		return "", err
	}

	clog.Debug("bridge: %s [%s] completed in %s (%d bytes)", command, id, elapsed, len(resp.Stdout))
	_ = b.audit.LogComplete(id, command, resp.ExitCode, elapsed)
	return resp.Stdout, nil
}

// outcome maps an executor response onto the bridge's error kinds.
func (b *Bridge) outcome(resp executor.ExecuteResponse) error {
	switch {
	case resp.Status == executor.StatusError:
		return fmt.Errorf("%w: %s", ErrSpawn, resp.Error)
	case resp.Status == executor.StatusTimeout:
		return fmt.Errorf("%w after %s", ErrTimeout, b.timeout)
	case resp.Status == executor.StatusCanceled:
		return ErrCanceled
	case resp.ExitCode != 0:
		// Unlike a plain emptiness check, whitespace-only stderr also counts
		// as no message, and the trailing line ending is dropped.
		msg := strings.TrimRight(resp.Stderr, "\r\n")
		if strings.TrimSpace(msg) == "" {
			msg = unknownError
		}
		return fmt.Errorf("%w: %s", ErrExecution, msg)
	}
	return nil
}

// decodeValue decodes exactly one JSON document from s. Numbers are kept as
// json.Number so integers beyond float64 precision survive unchanged.
func decodeValue(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return value, nil
}

// timeoutMillis converts d to whole milliseconds, rounding up so that a
// positive timeout never becomes zero (no timeout).
func timeoutMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Millisecond - 1) / time.Millisecond)
}
