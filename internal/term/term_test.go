package term

import (
	"bytes"
	"io"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out)
	SetErrOutput(&errOut)
	t.Cleanup(Reset)
	return &out, &errOut
}

func TestPrintFunctions(t *testing.T) {
	out, _ := capture(t)

	Print("a")
	Printf("-%d-", 1)
	Println("b")

	if got, want := out.String(), "a-1-b\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestWarnAndError(t *testing.T) {
	_, errOut := capture(t)

	Warn("disk %s", "low")
	Error("script %s", "failed")

	if got, want := errOut.String(), "Warning: disk low\nError: script failed\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestPrintValue_CompactWhenNotTerminal(t *testing.T) {
	out, _ := capture(t)

	if err := PrintValue(map[string]any{"name": "An", "url": "a<b"}); err != nil {
		t.Fatalf("PrintValue() error = %v", err)
	}
	if got, want := out.String(), `{"name":"An","url":"a<b"}`+"\n"; got != want {
		t.Errorf("PrintValue() = %q, want %q", got, want)
	}
}

func TestPrintValue_EncodeError(t *testing.T) {
	capture(t)
	if err := PrintValue(make(chan int)); err == nil {
		t.Error("PrintValue(chan) should fail")
	}
}

func TestSilentMode(t *testing.T) {
	out, errOut := capture(t)
	SetSilent(true)

	Println("hidden")
	_ = PrintValue(true)
	Error("shown")

	if out.Len() != 0 {
		t.Errorf("stdout should be empty in silent mode, got %q", out.String())
	}
	if errOut.String() != "Error: shown\n" {
		t.Errorf("errors must not be silenced, got %q", errOut.String())
	}
	if !IsSilent() {
		t.Error("IsSilent() = false")
	}
	if Stdout() != io.Discard {
		t.Error("Stdout() should discard in silent mode")
	}
}

func TestReset(t *testing.T) {
	SetSilent(true)
	Reset()
	if IsSilent() {
		t.Error("Reset() should clear silent mode")
	}
}
