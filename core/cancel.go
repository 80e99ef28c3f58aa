package core

import (
	"errors"
	"sync"
)

// ErrCancelled is returned by CancellationToken.Check once the token has been
// cancelled. Callers must treat it as an expected control-flow signal, not a
// defect; match it with errors.Is.
var ErrCancelled = errors.New("request cancelled")

// CancellationToken is a shared one-way latch used for cooperative
// cancellation. Once cancelled it never reverts. Multiple holders may read or
// cancel concurrently; cancellation is advisory and only observed at explicit
// checkpoints, so work already handed to an external backend runs to
// completion regardless.
type CancellationToken struct {
	mu        sync.RWMutex
	cancelled bool
}

// NewCancellationToken creates an uncancelled token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel sets the latch. Idempotent; it has no side effects beyond the flag.
func (t *CancellationToken) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// IsCancelled reports the latch state without blocking.
func (t *CancellationToken) IsCancelled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancelled
}

// Check is the cooperative cancellation checkpoint: it returns ErrCancelled
// if the latch is set and nil otherwise.
func (t *CancellationToken) Check() error {
	if t.IsCancelled() {
		return ErrCancelled
	}
	return nil
}

// RequestManager tracks the cancellation token of every in-flight request.
// It is the only long-lived shared mutable structure in the pipeline and is
// safe for arbitrary concurrent register/cancel/unregister from independent
// requests.
type RequestManager struct {
	mu     sync.RWMutex
	active map[string]*CancellationToken
}

// NewRequestManager constructs an empty manager.
func NewRequestManager() *RequestManager {
	return &RequestManager{active: make(map[string]*CancellationToken)}
}

// Register creates a fresh token for the request id and tracks it. The
// returned handle is shared between the orchestration goroutine and any
// external cancel endpoint. An id stays present until Unregister.
func (m *RequestManager) Register(requestID string) *CancellationToken {
	token := NewCancellationToken()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[requestID] = token
	return token
}

// Cancel cancels the token for the given id if present and reports whether
// one was found. A missing id is a normal race outcome (the request already
// completed or never existed), not an error.
func (m *RequestManager) Cancel(requestID string) bool {
	m.mu.RLock()
	token, ok := m.active[requestID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	token.Cancel()
	return true
}

// Unregister removes the entry unconditionally. It must be called exactly
// once per registered request regardless of outcome.
func (m *RequestManager) Unregister(requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, requestID)
}

// Active returns the number of currently registered requests.
func (m *RequestManager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}
