package bridge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSoftExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "session.json")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"existing directory", dir, true},
		{"missing file", filepath.Join(dir, "missing"), false},
		{"file used as directory", filepath.Join(file, "child"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SoftExists(tt.path); got != tt.want {
				t.Errorf("SoftExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// lockedDir returns a file path inside a directory the caller cannot search.
func lockedDir(t *testing.T) string {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	file := filepath.Join(dir, "session.json")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Chmod(dir, 0); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })
	return file
}

func TestSoftExists_PermissionDenied(t *testing.T) {
	file := lockedDir(t)
	if SoftExists(file) {
		t.Error("SoftExists() = true for unreadable path, want false")
	}
}

func TestStrictExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := StrictExists(dir)
	if err != nil || !ok {
		t.Errorf("StrictExists(dir) = %v, %v; want true, nil", ok, err)
	}

	ok, err = StrictExists(filepath.Join(dir, "missing"))
	if err != nil || ok {
		t.Errorf("StrictExists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestStrictExists_PermissionDenied(t *testing.T) {
	file := lockedDir(t)
	ok, err := StrictExists(file)
	if ok {
		t.Error("StrictExists() = true for unreadable path")
	}
	if err == nil {
		t.Error("StrictExists() should report the permission error")
	}
}
