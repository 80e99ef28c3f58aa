package core

import (
	"sync"
	"sync/atomic"
)

// DefaultStreamCapacity is the event buffer size used when none is supplied.
const DefaultStreamCapacity = 100

// Stream is the bounded single-producer single-consumer event channel
// bridging the orchestration goroutine to a transport adapter.
//
// Delivery is best-effort: Send never blocks. When the buffer is full or the
// stream is closed the event is dropped and counted instead, so an abandoned
// consumer can never leak a suspended producer goroutine. Consumers that keep
// draining observe events in exact emission order.
type Stream struct {
	ch      chan StreamEvent
	mu      sync.Mutex
	closed  bool
	dropped atomic.Int64
}

// NewStream creates a stream with the given buffer capacity. Non-positive
// capacities fall back to DefaultStreamCapacity.
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = DefaultStreamCapacity
	}
	return &Stream{ch: make(chan StreamEvent, capacity)}
}

// Send offers the event to the consumer without blocking. It reports whether
// the event was accepted; false means it was dropped (buffer full or stream
// closed).
func (s *Stream) Send(ev StreamEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped.Add(1)
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Events returns the receive side of the stream. The channel is closed after
// the producer finishes; a terminal event, when delivered, is always the last
// value observed.
func (s *Stream) Events() <-chan StreamEvent {
	return s.ch
}

// Close marks the stream finished and closes the underlying channel.
// Idempotent. Only the producer side may call it.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Dropped returns how many events were discarded under backpressure.
func (s *Stream) Dropped() int64 {
	return s.dropped.Load()
}
