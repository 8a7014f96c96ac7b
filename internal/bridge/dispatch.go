package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Command names as the front-end invokes them.
const (
	CommandFetchStudentInfo = "fetch_student_info"
	CommandCaptureSession   = "capture_session"
	CommandCheckSessionFile = "check_session_file"
)

// Handler runs one command with JSON-encoded parameters.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher maps command names to handlers. The table is fixed when the
// Dispatcher is built and never changes afterwards, so a single Dispatcher may
// be shared by every transport.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds the command table for svc.
func NewDispatcher(svc Service) *Dispatcher {
	return &Dispatcher{
		handlers: map[string]Handler{
			CommandFetchStudentInfo: func(ctx context.Context, raw json.RawMessage) (any, error) {
				p, err := decodeScriptParams(raw)
				if err != nil {
					return nil, err
				}
				return svc.FetchStudentInfo(ctx, p.ScriptPath, p.SessionPath)
			},
			CommandCaptureSession: func(ctx context.Context, raw json.RawMessage) (any, error) {
				p, err := decodeScriptParams(raw)
				if err != nil {
					return nil, err
				}
				return svc.CaptureSession(ctx, p.ScriptPath, p.SessionPath)
			},
			CommandCheckSessionFile: func(_ context.Context, raw json.RawMessage) (any, error) {
				p, err := decodeParams(raw)
				if err != nil {
					return nil, err
				}
				if p.SessionPath == nil {
					return nil, missingParam("session_path")
				}
				return svc.CheckSessionFile(*p.SessionPath), nil
			},
		},
	}
}

// Names returns the registered command names in sorted order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a registered command.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

// Dispatch runs the named command.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params json.RawMessage) (any, error) {
	h, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h(ctx, params)
}

// Params are the command arguments. Both the snake_case names and the
// camelCase names a JavaScript front-end sends are accepted.
type Params struct {
	ScriptPath  *string
	SessionPath *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw struct {
		ScriptPath       *string `json:"python_script_path"`
		ScriptPathCamel  *string `json:"pythonScriptPath"`
		SessionPath      *string `json:"session_path"`
		SessionPathCamel *string `json:"sessionPath"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ScriptPath = firstNonNil(raw.ScriptPath, raw.ScriptPathCamel)
	p.SessionPath = firstNonNil(raw.SessionPath, raw.SessionPathCamel)
	return nil
}

type scriptParams struct {
	ScriptPath  string
	SessionPath string
}

func decodeParams(raw json.RawMessage) (Params, error) {
	var p Params
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return p, nil
}

func decodeScriptParams(raw json.RawMessage) (scriptParams, error) {
	p, err := decodeParams(raw)
	if err != nil {
		return scriptParams{}, err
	}
	if p.ScriptPath == nil {
		return scriptParams{}, missingParam("python_script_path")
	}
	if p.SessionPath == nil {
		return scriptParams{}, missingParam("session_path")
	}
	return scriptParams{ScriptPath: *p.ScriptPath, SessionPath: *p.SessionPath}, nil
}

func missingParam(name string) error {
	return fmt.Errorf("%w: missing required key %s", ErrInvalidParams, name)
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
