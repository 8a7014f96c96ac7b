package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vkutk/bridge/internal/clog"
)

// maxLineBytes bounds a single request line.
const maxLineBytes = 1 << 20

// SocketServer listens on a Unix socket and serves newline-delimited JSON
// requests. A connection may carry any number of requests, answered in order.
type SocketServer struct {
	socketPath string
	invoker    *Invoker

	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	shutdown chan struct{}
	mu       sync.Mutex // protects listener, conns and shutdown state
}

// NewSocketServer creates a SocketServer bound to socketPath.
func NewSocketServer(socketPath string, invoker *Invoker) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		invoker:    invoker,
		conns:      make(map[net.Conn]struct{}),
		shutdown:   make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It creates the parent directory
// if needed, replaces a stale socket file and restricts the socket to the
// owner.
func (s *SocketServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("socket server already running")
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return err
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return err
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop stops accepting connections and waits for in-flight requests.
// Scripts are not interrupted, so Stop blocks until running scripts exit.
// A stopped server cannot be restarted.
func (s *SocketServer) Stop() error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	close(s.shutdown)
	err := s.listener.Close()
	s.listener = nil
	// Wake connections blocked waiting for their next request. A request
	// already running still gets its response written.
	for conn := range s.conns {
		_ = conn.SetReadDeadline(time.Now())
	}
	s.mu.Unlock()

	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	return err
}

// SocketPath returns the path to the Unix socket.
func (s *SocketServer) SocketPath() string {
	return s.socketPath
}

func (s *SocketServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				clog.Warn("server: accept failed: %v", err)
				continue
			}
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection answers requests on conn until the client closes it or
// the server shuts down.
func (s *SocketServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		select {
		case <-s.shutdown:
			s.writeResponse(conn, Response{Error: "server shutting down"})
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid JSON: " + err.Error()})
			continue
		}

		resp, _ := s.invoker.Invoke(context.Background(), req)
		if !s.writeResponse(conn, resp) {
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		s.writeResponse(conn, Response{Error: "failed to read request: " + err.Error()})
	}
}

// track registers conn unless the server is shutting down.
func (s *SocketServer) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdown:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *SocketServer) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// writeResponse writes resp as one JSON line and reports whether the write
// succeeded.
func (s *SocketServer) writeResponse(conn net.Conn, resp Response) bool {
	data, err := json.Marshal(resp)
	if err != nil {
		data = []byte(`{"ok":false,"error":"failed to marshal response"}`)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		clog.Debug("server: write response: %v", err)
		return false
	}
	return true
}
