package clog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalFunctions(t *testing.T) {
	defer Reset()

	l, buf := newBufferLogger(LevelDebug)
	ReplaceGlobal(l)

	Debug("debug %s", "msg")
	Info("info %s", "msg")
	Warn("warn %s", "msg")
	Error("error %s", "msg")

	for _, want := range []string{"[DEBUG] debug msg", "[INFO] info msg", "[WARN] warn msg", "[ERROR] error msg"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got: %s", want, buf.String())
		}
	}
}

func TestConfigure(t *testing.T) {
	defer Reset()

	logPath := filepath.Join(t.TempDir(), "bridge.log")
	if err := Configure(logPath, LevelDebug, true); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	defer func() { _ = Close() }()

	Debug("debug goes to file")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "debug goes to file") {
		t.Errorf("expected message in log file, got: %s", content)
	}
	if !Enabled(LevelDebug) {
		t.Error("Enabled(LevelDebug) = false after Configure")
	}
}

func TestConfigureEmptyPath(t *testing.T) {
	defer Reset()

	if err := Configure("", LevelInfo, false); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	Info("test")
}

func TestDiscard(t *testing.T) {
	defer Reset()
	Discard()

	Debug("test")
	Error("test")
}

func TestWriter_TrimsNewline(t *testing.T) {
	defer Reset()

	l, buf := newBufferLogger(LevelDebug)
	ReplaceGlobal(l)

	if _, err := Writer(LevelWarn).Write([]byte("http: TLS handshake error\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[WARN] http: TLS handshake error") {
		t.Errorf("expected message from writer, got: %s", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("expected single newline, got: %q", output)
	}
}

func TestSetFunctions(t *testing.T) {
	defer Reset()

	var buf, errBuf bytes.Buffer
	SetFileOutput(&buf)
	SetErrOutput(&errBuf)
	SetLevel(LevelDebug)
	SetDaemonMode(true)

	Warn("quiet warning")

	if !strings.Contains(buf.String(), "quiet warning") {
		t.Error("expected warning in file output")
	}
	if errBuf.Len() != 0 {
		t.Error("daemon mode should keep stderr empty")
	}
}
