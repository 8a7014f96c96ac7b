package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/clog"
)

// SecretHeader carries the shared secret on HTTP requests. A bearer token in
// the Authorization header is accepted as well.
const SecretHeader = "X-Bridge-Secret"

// HTTPServer serves bridge commands over HTTP:
//
//	POST /invoke/{command}   body: command params as a JSON object
//	GET  /commands           registered command names
//	GET  /healthz            liveness
type HTTPServer struct {
	// Addr is the address to listen on (e.g., "127.0.0.1:7421").
	Addr string

	invoker  *Invoker
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
	running  bool
}

// NewHTTPServer creates an HTTP server for invoker listening on addr.
func NewHTTPServer(addr string, invoker *Invoker) *HTTPServer {
	return &HTTPServer{Addr: addr, invoker: invoker}
}

// Handler returns the HTTP handler, routed as described on HTTPServer.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoke/{command}", s.handleInvoke)
	mux.HandleFunc("GET /commands", s.handleCommands)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Start begins accepting connections.
func (s *HTTPServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("http server already running")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 30 * time.Second,
		ErrorLog:          log.New(clog.Writer(clog.LevelWarn), "http: ", 0),
	}
	s.running = true

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.Error("server: http serve: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server, waiting for in-flight requests until
// ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.server.Shutdown(ctx)
}

// ListenAddr returns the actual address the server is listening on, which
// differs from Addr when Addr uses port 0. Empty when not started.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *HTTPServer) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLineBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{Error: "failed to read request body: " + err.Error()})
		return
	}

	req := Request{
		ID:      r.Header.Get("X-Request-ID"),
		Secret:  requestSecret(r),
		Command: r.PathValue("command"),
		Params:  body,
	}

	// A client that goes away does not cancel the script; it runs to
	// completion and its result is audited as usual.
	resp, err := s.invoker.Invoke(context.WithoutCancel(r.Context()), req)
	writeJSON(w, statusFor(err), resp)
}

func (s *HTTPServer) handleCommands(w http.ResponseWriter, r *http.Request) {
	if err := s.invoker.Authorize(requestSecret(r)); err != nil {
		writeJSON(w, http.StatusUnauthorized, Response{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"commands": s.invoker.Commands()})
}

// statusFor maps an invocation error to an HTTP status. Command failures are
// ordinary results and use 200; only protocol problems use 4xx.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, bridge.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, bridge.ErrInvalidParams):
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func requestSecret(r *http.Request) string {
	if secret := r.Header.Get(SecretHeader); secret != "" {
		return secret
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
