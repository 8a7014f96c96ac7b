// Package audit records bridge command invocations.
// Log entries follow a key=value format suitable for parsing and analysis.
package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of invocation event.
type EventType string

// Event types for bridge invocations.
const (
	EventInvoke   EventType = "INVOKE"
	EventComplete EventType = "COMPLETE"
	EventFail     EventType = "FAIL"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time
	Type      EventType

	// ID correlates the INVOKE entry with its COMPLETE or FAIL entry.
	ID string

	// Command is the bridge operation name (e.g. fetch_student_info).
	Command string

	// Script is the script path, empty for check_session_file.
	Script string

	// Data is the data/session path passed to the script.
	Data string

	// ExitCode is the interpreter exit code (for COMPLETE and FAIL events).
	ExitCode int

	// Reason is the failure message (for FAIL events).
	Reason string

	// Duration is the wall time of the call (for COMPLETE and FAIL events).
	Duration time.Duration
}

// Format returns the log entry as a formatted string.
// Format: 2024-01-15T14:32:05Z BRIDGE INVOKE id=... command=capture_session script="..." data="..."
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(" BRIDGE ")
	b.WriteString(string(e.Type))

	writeOptionalField(&b, "id", e.ID)
	b.WriteString(" command=")
	b.WriteString(e.Command)
	writeOptionalField(&b, "script", e.Script)
	writeOptionalField(&b, "data", e.Data)

	switch e.Type {
	case EventComplete:
		b.WriteString(" exit=")
		b.WriteString(strconv.Itoa(e.ExitCode))
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	case EventFail:
		b.WriteString(" exit=")
		b.WriteString(strconv.Itoa(e.ExitCode))
		writeOptionalField(&b, "reason", e.Reason)
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	}

	return b.String()
}

// writeOptionalField appends " key=quoted_value" to the builder if value is non-empty.
func writeOptionalField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(fmt.Sprintf("%q", value))
}

// formatDuration formats a duration as a human-readable string (e.g., "2.3s", "1m30s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Logger writes audit events to an io.Writer.
// A nil *Logger is valid and discards every event.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewLogger creates a new audit logger that writes to the given writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Log writes an event to the audit log.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}

	if _, err := l.w.Write([]byte(e.Format() + "\n")); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogInvoke logs an INVOKE event.
func (l *Logger) LogInvoke(id, command, script, data string) error {
	return l.Log(&Event{
		Type:    EventInvoke,
		ID:      id,
		Command: command,
		Script:  script,
		Data:    data,
	})
}

// LogComplete logs a COMPLETE event.
func (l *Logger) LogComplete(id, command string, exitCode int, duration time.Duration) error {
	return l.Log(&Event{
		Type:     EventComplete,
		ID:       id,
		Command:  command,
		ExitCode: exitCode,
		Duration: duration,
	})
}

// LogFail logs a FAIL event.
func (l *Logger) LogFail(id, command string, exitCode int, reason string, duration time.Duration) error {
	return l.Log(&Event{
		Type:     EventFail,
		ID:       id,
		Command:  command,
		ExitCode: exitCode,
		Reason:   reason,
		Duration: duration,
	})
}
