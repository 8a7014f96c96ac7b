package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkutk/bridge/internal/server"
	"github.com/vkutk/bridge/internal/term"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bridge server status",
	Long:  `Show whether 'vkubridge serve' is running, with its PID, addresses and uptime.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the bridge server",
	Long: `Ask a running 'vkubridge serve' to shut down and wait for it to exit.
In-flight commands are allowed to finish.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

// stopWait bounds how long 'stop' waits for the server to exit.
var stopWait = 10 * time.Second

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	statePath := server.DefaultStatePath()
	state, err := server.LoadState(statePath)
	if err != nil {
		return err
	}

	if state == nil {
		term.Println("Status: not running")
		return nil
	}
	if !server.IsRunning(state) {
		term.Println("Status: not running (stale state)")
		if _, err := server.CleanupStale(statePath); err != nil {
			term.Warn("failed to clean up stale state: %v", err)
		}
		return nil
	}

	term.Println("Status: running")
	term.Printf("PID: %d\n", state.PID)
	if state.SocketPath != "" {
		term.Printf("Socket: %s\n", state.SocketPath)
	}
	if state.HTTPAddr != "" {
		term.Printf("HTTP: %s\n", state.HTTPAddr)
	}
	if !state.StartedAt.IsZero() {
		term.Printf("Uptime: %s\n", formatUptime(time.Since(state.StartedAt)))
	}
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	statePath := server.DefaultStatePath()
	state, err := server.LoadState(statePath)
	if err != nil {
		return err
	}

	if !server.IsRunning(state) {
		if _, err := server.CleanupStale(statePath); err != nil {
			term.Warn("failed to clean up stale state: %v", err)
		}
		term.Println("Bridge server is not running")
		return nil
	}

	term.Printf("Stopping bridge server (PID %d)...\n", state.PID)
	if err := server.SignalStop(state); err != nil {
		return fmt.Errorf("failed to stop bridge server: %w", err)
	}

	deadline := time.Now().Add(stopWait)
	for server.IsRunning(state) {
		if time.Now().After(deadline) {
			return fmt.Errorf("bridge server (PID %d) did not exit within %s", state.PID, stopWait)
		}
		time.Sleep(100 * time.Millisecond)
	}

	term.Println("Bridge server stopped")
	return nil
}

// formatUptime renders d as e.g. "3d 4h", "2h 15m", "5m 30s" or "42s".
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, fmt.Sprintf("%dd", days), fmt.Sprintf("%dh", hours))
	case hours > 0:
		parts = append(parts, fmt.Sprintf("%dh", hours), fmt.Sprintf("%dm", minutes))
	case minutes > 0:
		parts = append(parts, fmt.Sprintf("%dm", minutes), fmt.Sprintf("%ds", seconds))
	default:
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}
