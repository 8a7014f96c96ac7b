package cmd

import "fmt"

// ExitCodeError carries a process exit status out of a command without an
// additional error message.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError returns an ExitCodeError for code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// notRunningError is returned by commands that need a running bridge server.
func notRunningError() error {
	return fmt.Errorf("bridge server is not running; start it with 'vkubridge serve'")
}
