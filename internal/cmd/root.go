// Package cmd implements the CLI commands for vkubridge.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/audit"
	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/clog"
	"github.com/vkutk/bridge/internal/config"
	"github.com/vkutk/bridge/internal/executor"
	"github.com/vkutk/bridge/internal/term"
	"github.com/vkutk/bridge/internal/version"
)

// daemonAnnotation marks commands that run unattended. Their log output goes
// to the log file only.
const daemonAnnotation = "vkubridge/daemon"

var (
	debugFlag  bool
	silentFlag bool
	configFlag string

	// cfg is loaded by the root pre-run hook.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vkubridge",
	Short: "Command bridge between a desktop front-end and helper scripts",
	Long: `vkubridge exposes three commands to a desktop or web front-end:

  fetch_student_info   run a script and return its JSON output
  capture_session      run a script and return its text output
  check_session_file   report whether a session file exists

Each script is run as "<interpreter> <script> <session>". The commands can be
run directly from the shell, or served to a front-end over a Unix socket and
HTTP with 'vkubridge serve'.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = clog.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false, "suppress normal output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default $XDG_CONFIG_HOME/vkubridge/config.yaml)")
}

// Execute runs the root command and returns any error. Errors other than
// ExitCodeError are printed to stderr.
func Execute() error {
	err := rootCmd.Execute()
	var exitErr *ExitCodeError
	if err != nil && !errors.As(err, &exitErr) {
		term.Error("%v", err)
	}
	return err
}

// setup loads the configuration and configures output and logging.
func setup(cmd *cobra.Command, args []string) error {
	term.SetSilent(silentFlag)

	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cfg = loaded

	level := clog.ParseLevel(cfg.Log.Level)
	if debugFlag {
		level = clog.LevelDebug
	}
	daemon := cmd.Annotations[daemonAnnotation] == "true"
	if err := clog.Configure(cfg.Log.File, level, daemon); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	clog.Debug("vkubridge %s: %s", version.Version, cmd.CommandPath())
	return nil
}

// openAudit opens the audit log at path. An empty path disables auditing.
// The returned close function is never nil.
func openAudit(path string) (*audit.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := clog.OpenLogFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	closeFn := func() {
		if err := f.Close(); err != nil {
			clog.Warn("failed to close audit log: %v", err)
		}
	}
	return audit.NewLogger(f), closeFn, nil
}

// newBridge builds a Bridge that runs scripts on this host as configured.
func newBridge(auditLog *audit.Logger) *bridge.Bridge {
	return bridge.New(
		executor.NewRealExecutor(),
		bridge.WithInterpreter(cfg.Interpreter),
		bridge.WithTimeout(cfg.TimeoutDuration()),
		bridge.WithAuditLogger(auditLog),
	)
}
