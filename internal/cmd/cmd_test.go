package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/clog"
	"github.com/vkutk/bridge/internal/term"
)

// isolate points HOME and the XDG directories at a fresh temp directory and
// returns it.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv("VKUBRIDGE_SECRET", "")
	return home
}

// execute runs the CLI with args and returns what it wrote to stdout and
// stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	debugFlag, silentFlag, configFlag = false, false, ""
	strictFlag = false
	socketFlag, invokeTimeout = "", ""
	cfg = nil
	resetHelpFlags(rootCmd)

	var out, errOut bytes.Buffer
	term.SetOutput(&out)
	term.SetErrOutput(&errOut)
	t.Cleanup(term.Reset)
	t.Cleanup(clog.Reset)

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = Execute()
	return out.String(), errOut.String(), err
}

// resetHelpFlags clears --help and --version left set by an earlier run.
func resetHelpFlags(c *cobra.Command) {
	for _, name := range []string{"help", "version"} {
		if f := c.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

// writeConfig writes a config file that runs scripts with sh and returns its
// path.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "test-config.yaml")
	data := "interpreter: sh\n" +
		"audit:\n  file: " + filepath.Join(dir, "audit.log") + "\n" +
		extra
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func wantExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want ExitCodeError(%d)", err, code)
	}
	if exitErr.Code != code {
		t.Errorf("exit code = %d, want %d", exitErr.Code, code)
	}
}
