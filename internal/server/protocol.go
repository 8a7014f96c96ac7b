// Package server exposes the bridge commands to front-end processes over a
// Unix socket and over HTTP, and provides a client for the socket.
//
// Both transports carry the same JSON envelope. On the socket each request
// and response is one line of JSON.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/clog"
)

// Request invokes one bridge command.
type Request struct {
	// ID correlates the response and the audit log. Generated when empty.
	ID string `json:"id,omitempty"`

	// Secret must match the server's shared secret when one is configured.
	Secret string `json:"secret,omitempty"`

	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response carries either a command's value or its error message.
type Response struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

// ErrUnauthorized is returned when a request's secret does not match.
var ErrUnauthorized = errors.New("invalid secret")

// Invoker authenticates requests and runs them against a dispatcher. It is
// the part shared by every transport.
type Invoker struct {
	dispatcher *bridge.Dispatcher
	secret     string
}

// NewInvoker creates an Invoker. An empty secret accepts every request.
func NewInvoker(d *bridge.Dispatcher, secret string) *Invoker {
	return &Invoker{dispatcher: d, secret: secret}
}

// Commands returns the names of the commands the invoker can run.
func (inv *Invoker) Commands() []string {
	return inv.dispatcher.Names()
}

// Authorize checks secret against the configured shared secret.
func (inv *Invoker) Authorize(secret string) error {
	if inv.secret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(inv.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Invoke runs req and always returns a response; failures are reported in
// Response.Error. The error return classifies the failure for transports
// that map it onto a status code, and is nil when the command succeeded.
func (inv *Invoker) Invoke(ctx context.Context, req Request) (Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	resp := Response{ID: req.ID}

	if err := inv.Authorize(req.Secret); err != nil {
		clog.Warn("server: rejected %s [%s]: %v", req.Command, req.ID, err)
		resp.Error = err.Error()
		return resp, err
	}

	value, err := inv.dispatcher.Dispatch(bridge.WithRequestID(ctx, req.ID), req.Command, req.Params)
	if err != nil {
		resp.Error = err.Error()
		return resp, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("encode result: %w", err)
		resp.Error = err.Error()
		return resp, err
	}

	resp.OK = true
	resp.Value = data
	return resp, nil
}
