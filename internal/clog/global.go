package clog

import (
	"io"
	"os"
)

// std is the global logger instance used by package-level functions.
var std = NewLogger()

// Configure sets up the global logger.
// If logPath is empty, file logging is disabled.
// If daemonMode is true, stderr output is disabled.
func Configure(logPath string, level Level, daemonMode bool) error {
	std.SetLevel(level)
	std.SetDaemonMode(daemonMode)

	if logPath != "" {
		f, err := OpenLogFile(logPath)
		if err != nil {
			return err
		}
		std.SetFileOutput(f)
	}
	return nil
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) { std.SetLevel(level) }

// SetFileOutput sets the file writer for the global logger.
func SetFileOutput(w io.Writer) { std.SetFileOutput(w) }

// SetErrOutput sets the stderr writer for the global logger.
func SetErrOutput(w io.Writer) { std.SetErrOutput(w) }

// SetDaemonMode enables or disables daemon mode for the global logger.
func SetDaemonMode(daemon bool) { std.SetDaemonMode(daemon) }

// Enabled reports whether the global logger writes messages at level.
func Enabled(level Level) bool { return std.Enabled(level) }

// Debug logs a debug message using the global logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }

// Info logs an informational message using the global logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Warn logs a warning message using the global logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }

// Error logs an error message using the global logger.
func Error(format string, args ...any) { std.Error(format, args...) }

// Close closes the file writer if it implements io.Closer.
func Close() error {
	std.mu.Lock()
	defer std.mu.Unlock()

	if closer, ok := std.fileWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Reset restores the global logger to its default state.
func Reset() {
	std = NewLogger()
}

// Discard silences the global logger. Useful in tests.
func Discard() {
	std.SetFileOutput(io.Discard)
	std.SetErrOutput(io.Discard)
}

// ReplaceGlobal replaces the global logger and returns the previous one.
func ReplaceGlobal(l *Logger) *Logger {
	old := std
	std = l
	return old
}

// Writer returns an io.Writer that logs each write at level. Used to hand
// clog to libraries that expect a *log.Logger, such as net/http.Server.
func Writer(level Level) io.Writer {
	return &levelWriter{level: level}
}

type levelWriter struct {
	level Level
}

func (w *levelWriter) Write(p []byte) (int, error) {
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	std.log(w.level, "%s", msg)
	return len(p), nil
}

func init() {
	std.SetErrOutput(os.Stderr)
}
