package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Request captures the normalized input of one completion call.
type Request struct {
	// Model optionally overrides the adapter's default model name.
	Model string
	// Preamble is the system-level instruction.
	Preamble string
	// Prompt is the user-facing instruction.
	Prompt string
	// Images carries raw image bytes for vision completion.
	Images [][]byte
}

// Info contains metadata about a model implementation.
type Info struct {
	Name           string `json:"name"`
	Provider       string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsVision bool   `json:"supports_vision"`
}

// Model is the minimal interface handlers use to drive generation. Complete
// and CompleteVision block until the backend returns; both honor context
// cancellation of the transport where the underlying client supports it.
type Model interface {
	Complete(ctx context.Context, req Request) (string, error)
	CompleteVision(ctx context.Context, req Request) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrVisionUnsupported is returned by adapters whose backend cannot accept
// image input.
var ErrVisionUnsupported = errors.New("vision completion not supported by this model")

// TransientError marks a backend failure that a caller may reasonably retry
// with a fresh request (network faults, rate limits, overload). The
// orchestrator maps it to recoverable=true on the terminal error event.
type TransientError struct {
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient backend error: %v", e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError. Nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err carries a TransientError anywhere in its
// chain.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses are keyed by prompt; unmatched prompts get a deterministic echo.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	err       error
	calls     []Request
}

// NewMockModel constructs a MockModel with vision support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsVision: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of every request seen so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Request, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[req.Prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.Prompt), nil
}

// CompleteVision implements Model; the mock treats it as Complete.
func (m *MockModel) CompleteVision(ctx context.Context, req Request) (string, error) {
	return m.Complete(ctx, req)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
