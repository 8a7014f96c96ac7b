package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/server"
	"github.com/vkutk/bridge/internal/term"
)

var (
	socketFlag    string
	invokeTimeout string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [key=value...]",
	Short: "Invoke a command on a running bridge server",
	Long: `Send one command to a running 'vkubridge serve' over its Unix socket, the
way a front-end does, and print the result as JSON.

Parameters are given as key=value pairs, for example:

  vkubridge invoke capture_session python_script_path=cap.py session_path=s.json

The shared secret is read from the environment variable named by
server.secret_env.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringVar(&socketFlag, "socket", "", "socket path (default from the running server or config)")
	invokeCmd.Flags().StringVar(&invokeTimeout, "timeout", "", "give up waiting for the result after this duration (e.g. 30s)")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}

	socketPath, err := invokeSocketPath()
	if err != nil {
		return err
	}

	var secret string
	if cfg.Server.SecretEnv != "" {
		secret = os.Getenv(cfg.Server.SecretEnv)
	}

	ctx := cmd.Context()
	if invokeTimeout != "" {
		d, err := time.ParseDuration(invokeTimeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	raw, err := server.NewClient(socketPath, secret).Call(ctx, args[0], params)
	if err != nil {
		return err
	}
	return term.PrintValue(raw)
}

// invokeSocketPath picks the --socket flag, then the running server's socket,
// then the configured one.
func invokeSocketPath() (string, error) {
	if socketFlag != "" {
		return socketFlag, nil
	}
	state, err := server.LoadState(server.DefaultStatePath())
	if err == nil && server.IsRunning(state) && state.SocketPath != "" {
		return state.SocketPath, nil
	}
	if cfg.Server.Socket == "" {
		return "", notRunningError()
	}
	return cfg.Server.Socket, nil
}

// parseParams turns key=value arguments into a params object. Values are
// always strings. A repeated key keeps its last value.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
