package bridge

import (
	"errors"
	"io/fs"
	"os"
)

// SoftExists reports whether a filesystem entry exists at path. Every lookup
// error, including permission denied, is reported as false. The answer is only
// valid at the instant of the check.
func SoftExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StrictExists is like SoftExists but only maps "does not exist" to false;
// any other lookup failure is returned so callers can tell a missing file from
// an unreadable one.
func StrictExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
