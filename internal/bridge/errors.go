package bridge

import "errors"

// Error kinds returned by Bridge. Messages are meant to be shown to the user
// as-is; use errors.Is to tell them apart.
var (
	// ErrScriptNotFound means the script path did not exist. No process was started.
	ErrScriptNotFound = errors.New("script not found")

	// ErrSpawn means the interpreter could not be started.
	ErrSpawn = errors.New("failed to execute script")

	// ErrExecution means the script ran and exited with a non-zero status.
	ErrExecution = errors.New("script error")

	// ErrParse means the script succeeded but its output was not valid JSON.
	ErrParse = errors.New("failed to parse student info as JSON")

	// ErrTimeout means the script outlived the configured timeout and was killed.
	ErrTimeout = errors.New("script timed out")

	// ErrCanceled means the caller's context was canceled while the script ran.
	ErrCanceled = errors.New("script canceled")

	// ErrUnknownCommand means no handler is registered under the requested name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidParams means the command parameters could not be decoded.
	ErrInvalidParams = errors.New("invalid parameters")
)
