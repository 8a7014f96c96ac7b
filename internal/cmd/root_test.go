package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("root command --help returned error: %v", err)
	}

	expectedStrings := []string{
		"vkubridge",
		"fetch_student_info",
		"Usage:",
		"Available Commands:",
		"serve",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(stdout, expected) {
			t.Errorf("help output missing expected string %q\nGot: %s", expected, stdout)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("root command --version returned error: %v", err)
	}
	if !strings.Contains(stdout, "vkubridge") {
		t.Errorf("version output missing 'vkubridge'\nGot: %s", stdout)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir+"/bad.yaml", "interpreter: sh\nbogus: 1\n")

	_, stderr, err := execute(t, "--config", path, "commands")
	if err == nil {
		t.Fatal("expected error for unknown config field")
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("stderr = %q, want error message", stderr)
	}
}

func TestCommands_ListsNames(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "commands")
	if err != nil {
		t.Fatalf("commands error = %v", err)
	}
	want := "capture_session\ncheck_session_file\nfetch_student_info\n"
	if stdout != want {
		t.Errorf("commands output = %q, want %q", stdout, want)
	}
}
