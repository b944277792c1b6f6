// Package reporting renders analysis results for CLI and file output:
// a JSON success/error envelope, Markdown summaries and CSV exports.
package reporting

import (
	"encoding/json"
	"fmt"
)

// Envelope wraps a result payload so callers can distinguish success
// from failure without inspecting the payload shape.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success wraps a payload in a success envelope.
func Success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure wraps an error in a failure envelope.
func Failure(err error) Envelope {
	return Envelope{Success: false, Error: err.Error()}
}

// RenderJSON marshals an envelope with indentation for terminal output.
func RenderJSON(e Envelope) (string, error) {
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(out), nil
}
