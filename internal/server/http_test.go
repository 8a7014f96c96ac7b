package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vkutk/bridge/internal/bridge"
	"github.com/vkutk/bridge/internal/executor"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestHTTPServer_Invoke(t *testing.T) {
	h := NewHTTPServer("127.0.0.1:0", newInvoker("")).Handler()

	tests := []struct {
		name       string
		command    string
		body       string
		wantStatus int
		wantOK     bool
		wantValue  string
		wantError  string
	}{
		{
			name:       "fetch",
			command:    bridge.CommandFetchStudentInfo,
			body:       `{"python_script_path":"/s.py","session_path":"/d.json"}`,
			wantStatus: http.StatusOK,
			wantOK:     true,
			wantValue:  `{"session":"/d.json"}`,
		},
		{
			name:       "check",
			command:    bridge.CommandCheckSessionFile,
			body:       `{"sessionPath":"/present"}`,
			wantStatus: http.StatusOK,
			wantOK:     true,
			wantValue:  `true`,
		},
		{
			name:       "command failure is a 200 result",
			command:    bridge.CommandCaptureSession,
			body:       `{"python_script_path":"/boom.py","session_path":"/d"}`,
			wantStatus: http.StatusOK,
			wantError:  "script error: boom",
		},
		{
			name:       "unknown command",
			command:    "shutdown",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
			wantError:  "unknown command: shutdown",
		},
		{
			name:       "missing params",
			command:    bridge.CommandCaptureSession,
			body:       ``,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, h, http.MethodPost, "/invoke/"+tt.command, tt.body, map[string]string{"X-Request-ID": "abc"})

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if resp.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v", resp.OK, tt.wantOK)
			}
			if resp.ID != "abc" {
				t.Errorf("ID = %q, want abc", resp.ID)
			}
			if tt.wantValue != "" && string(resp.Value) != tt.wantValue {
				t.Errorf("Value = %s, want %s", resp.Value, tt.wantValue)
			}
			if tt.wantError != "" && resp.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestHTTPServer_MethodNotAllowed(t *testing.T) {
	h := NewHTTPServer("127.0.0.1:0", newInvoker("")).Handler()
	rec, _ := doRequest(t, h, http.MethodGet, "/invoke/check_session_file", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHTTPServer_Secret(t *testing.T) {
	h := NewHTTPServer("127.0.0.1:0", newInvoker("s3cret")).Handler()
	body := `{"session_path":"/present"}`

	rec, _ := doRequest(t, h, http.MethodPost, "/invoke/check_session_file", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no secret: status = %d, want 401", rec.Code)
	}

	rec, _ = doRequest(t, h, http.MethodPost, "/invoke/check_session_file", body, map[string]string{SecretHeader: "s3cret"})
	if rec.Code != http.StatusOK {
		t.Errorf("header secret: status = %d, want 200", rec.Code)
	}

	rec, _ = doRequest(t, h, http.MethodPost, "/invoke/check_session_file", body, map[string]string{"Authorization": "Bearer s3cret"})
	if rec.Code != http.StatusOK {
		t.Errorf("bearer secret: status = %d, want 200", rec.Code)
	}

	rec, _ = doRequest(t, h, http.MethodGet, "/commands", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("commands without secret: status = %d, want 401", rec.Code)
	}
}

func TestHTTPServer_CommandsAndHealth(t *testing.T) {
	h := NewHTTPServer("127.0.0.1:0", newInvoker("")).Handler()

	rec, _ := doRequest(t, h, http.MethodGet, "/commands", "", nil)
	var listing struct {
		Commands []string `json:"commands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if len(listing.Commands) != 3 {
		t.Errorf("commands = %v, want 3 entries", listing.Commands)
	}

	rec, _ = doRequest(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHTTPServer_StartStop(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", newInvoker(""))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() should fail")
	}

	addr := s.ListenAddr()
	if addr == "" {
		t.Fatal("ListenAddr() empty after Start")
	}

	resp, err := http.Post("http://"+addr+"/invoke/check_session_file", "application/json", strings.NewReader(`{"session_path":"/present"}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `"value":true`) {
		t.Errorf("body = %s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestHTTPServer_ClientDisconnectDoesNotKillScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "slow.sh")
	if err := os.WriteFile(script, []byte("sleep 0.5\nprintf done\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	b := bridge.New(executor.NewRealExecutor(), bridge.WithInterpreter("sh"))
	h := NewHTTPServer("127.0.0.1:0", NewInvoker(bridge.NewDispatcher(b), "")).Handler()

	body, _ := json.Marshal(map[string]string{"python_script_path": script, "session_path": "/s"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	req := httptest.NewRequest(http.MethodPost, "/invoke/capture_session", strings.NewReader(string(body))).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error = %v; body %s", err, rec.Body.String())
	}
	if !resp.OK || string(resp.Value) != `"done"` {
		t.Errorf("response = %+v (value %s), want script output relayed", resp, resp.Value)
	}
}
