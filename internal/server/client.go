package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/google/uuid"

	"github.com/vkutk/bridge/internal/clog"
)

// RemoteError is a command failure reported by the server.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Client sends requests to a SocketServer.
type Client struct {
	socketPath string
	secret     string
}

// NewClient creates a client for the socket at socketPath.
func NewClient(socketPath, secret string) *Client {
	return &Client{socketPath: socketPath, secret: secret}
}

// Call runs command with params, which are encoded as JSON. It opens a new
// connection for each call. A command failure is returned as *RemoteError.
func (c *Client) Call(ctx context.Context, command string, params any) (json.RawMessage, error) {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	conn, err := (&net.Dialer{}).DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge (%s): %w", c.socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			clog.Debug("client: close connection: %v", err)
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req := Request{
		ID:      uuid.NewString(),
		Secret:  c.secret,
		Command: command,
		Params:  rawParams,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.OK {
		return nil, &RemoteError{Message: resp.Error}
	}
	return resp.Value, nil
}
