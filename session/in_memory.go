package session

import (
	"sync"
	"time"
)

// Message is one conversational turn.
type Message struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Store persists conversation history keyed by session id.
type Store interface {
	// Append records a message for the session, creating it lazily.
	Append(sessionID string, msg Message) error
	// History returns up to limit most recent messages in chronological
	// order. A non-positive limit returns the full history.
	History(sessionID string, limit int) ([]Message, error)
}

// InMemoryStore is a volatile Store implementation keeping history in a
// process-local map. It is safe for concurrent access; returned slices are
// defensive copies.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]Message)}
}

// Append implements Store.
func (s *InMemoryStore) Append(sessionID string, msg Message) error {
	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

// History implements Store.
func (s *InMemoryStore) History(sessionID string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.sessions[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out, nil
}
