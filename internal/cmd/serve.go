package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/clog"
	"github.com/vkutk/bridge/internal/server"
	"github.com/vkutk/bridge/internal/term"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bridge commands to front-ends",
	Long: `Serve fetch_student_info, capture_session and check_session_file over the
Unix socket (server.socket) and HTTP (server.http_listen) configured in the
config file. An empty address disables that transport.

When the environment variable named by server.secret_env is set, every
request must carry its value. Runs until interrupted or 'vkubridge stop'.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{daemonAnnotation: "true"},
	RunE:        runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the configured transports and blocks until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Server.Socket == "" && cfg.Server.HTTPListen == "" {
		return errors.New("no transport configured; set server.socket or server.http_listen")
	}

	statePath := server.DefaultStatePath()
	state, err := server.LoadState(statePath)
	if err != nil {
		clog.Warn("ignoring unreadable state file: %v", err)
	} else if server.IsRunning(state) {
		return fmt.Errorf("bridge server already running (PID %d)", state.PID)
	}

	var secret string
	if cfg.Server.SecretEnv != "" {
		secret = os.Getenv(cfg.Server.SecretEnv)
	}
	if secret == "" {
		clog.Warn("no shared secret set; accepting unauthenticated requests")
	}

	auditLog, closeAudit, err := openAudit(cfg.Audit.File)
	if err != nil {
		return err
	}
	defer closeAudit()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	b := newBridge(auditLog)
	invoker := server.NewInvoker(bridge.NewDispatcher(b), secret)
	clog.Info("interpreter %s, timeout %s", b.Interpreter(), displayTimeout(cfg.TimeoutDuration()))

	var socketServer *server.SocketServer
	if cfg.Server.Socket != "" {
		socketServer = server.NewSocketServer(cfg.Server.Socket, invoker)
		if err := socketServer.Start(); err != nil {
			return fmt.Errorf("failed to start socket server: %w", err)
		}
		clog.Info("socket server listening on %s", cfg.Server.Socket)
	}

	var httpServer *server.HTTPServer
	if cfg.Server.HTTPListen != "" {
		httpServer = server.NewHTTPServer(cfg.Server.HTTPListen, invoker)
		if err := httpServer.Start(); err != nil {
			if socketServer != nil {
				_ = socketServer.Stop()
			}
			return fmt.Errorf("failed to start http server: %w", err)
		}
		clog.Info("http server listening on %s", httpServer.ListenAddr())
	}

	newState := &server.State{
		PID:        os.Getpid(),
		SocketPath: cfg.Server.Socket,
		StartedAt:  time.Now().UTC(),
	}
	if httpServer != nil {
		newState.HTTPAddr = httpServer.ListenAddr()
	}
	if err := server.SaveState(statePath, newState); err != nil {
		clog.Warn("failed to save state: %v", err)
	}

	term.Printf("Bridge serving (PID %d)\n", newState.PID)

	sig := <-sigChan

	clog.Info("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var httpErr, socketErr error
	if httpServer != nil {
		httpErr = httpServer.Stop(ctx)
	}
	if socketServer != nil {
		socketErr = socketServer.Stop()
	}

	if err := server.RemoveState(statePath); err != nil {
		clog.Warn("failed to remove state: %v", err)
	}

	if httpErr != nil {
		return fmt.Errorf("error during http shutdown: %w", httpErr)
	}
	if socketErr != nil {
		return fmt.Errorf("error during socket shutdown: %w", socketErr)
	}

	clog.Info("bridge server stopped")
	return nil
}

func displayTimeout(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
