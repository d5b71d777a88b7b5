package scriptgate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/xid"
)

// notAllowedMessage is the error text returned for rejected scripts.
const notAllowedMessage = "Script not allowed"

// ErrScriptNotAllowed is reported by the client when the gateway refuses a script.
var ErrScriptNotAllowed = errors.New("script not allowed")

// Request is the body accepted by POST /run.
// Script is kept raw so that a missing or non-string value can be told
// apart from a real name without failing the whole decode.
type Request struct {
	Script json.RawMessage `json:"script,omitempty"`
}

// DecodeRequest parses a /run body. The body must be exactly one JSON
// object; trailing data and other JSON values are rejected.
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return req, errors.New("request body must be a JSON object")
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, err
	}
	return req, nil
}

// NewRequest builds a request naming the given script.
func NewRequest(script string) Request {
	b, _ := json.Marshal(script)
	return Request{Script: b}
}

// ScriptName returns the requested script and whether it was a JSON string.
func (r Request) ScriptName() (string, bool) {
	// json.Unmarshal accepts null into a string without error
	if len(r.Script) == 0 || string(r.Script) == "null" {
		return "", false
	}
	var name string
	if err := json.Unmarshal(r.Script, &name); err != nil {
		return "", false
	}
	return name, true
}

// RunResponse is returned when the script exits with status 0.
type RunResponse struct {
	Output string `json:"output"`
}

// ErrorResponse is returned for rejected or failed scripts.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Result is the outcome of one script execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports whether the process exited with status 0.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// ScriptError is returned by Client.Run when the gateway answers 400 or 403.
type ScriptError struct {
	StatusCode int
	Message    string
	RequestID  xid.ID
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("run failed with status %d: %s", e.StatusCode, e.Message)
}

func (e *ScriptError) Unwrap() error {
	if e.StatusCode == http.StatusForbidden {
		return ErrScriptNotAllowed
	}
	return nil
}
