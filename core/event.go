package core

import "time"

// EventType tags a StreamEvent variant. The set is closed: content kinds may
// occur zero or more times per request, terminal kinds exactly once, last.
type EventType string

const (
	// EventStarted is the first event of every request stream.
	EventStarted EventType = "started"
	// EventCoordinatorThinking is a purely informational status event.
	EventCoordinatorThinking EventType = "coordinator_thinking"
	// EventTextChunk carries a fragment of generated text.
	EventTextChunk EventType = "text_chunk"
	// EventObjectChunk carries the structured payload of the object handler.
	EventObjectChunk EventType = "object_chunk"
	// EventDocumentChunk carries the structured payload of the document handler.
	EventDocumentChunk EventType = "document_chunk"
	// EventDescriptionChunk carries the structured payload of the description handler.
	EventDescriptionChunk EventType = "description_chunk"
	// EventComparisonChunk carries the structured payload of the comparison handler.
	EventComparisonChunk EventType = "comparison_chunk"
	// EventCompleted terminates a successful request.
	EventCompleted EventType = "completed"
	// EventError terminates a failed request.
	EventError EventType = "error"
	// EventCancelled terminates a request aborted at a checkpoint.
	EventCancelled EventType = "cancelled"
)

// StreamEvent is the unit of communication between the orchestrator and the
// transport adapter. After emission it must be treated as immutable. Every
// variant carries the request id; the remaining fields are populated per
// variant and omitted from the wire form otherwise.
type StreamEvent struct {
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id"`

	// Started / Completed
	Timestamp int64 `json:"timestamp,omitempty"`

	// CoordinatorThinking
	Message string `json:"message,omitempty"`

	// TextChunk
	Chunk string `json:"chunk,omitempty"`

	// Structured payload kinds
	Data map[string]any `json:"data,omitempty"`

	// Completed
	FinalResult string `json:"final_result,omitempty"`

	// Error. Recoverable is serialized unconditionally: false is a meaningful
	// value (deterministic failures like parse errors) and must reach the wire.
	Error       string `json:"error,omitempty"`
	Recoverable bool   `json:"recoverable"`

	// Cancelled
	Reason string `json:"reason,omitempty"`
}

// IsTerminal reports whether the event ends its request stream.
func (e StreamEvent) IsTerminal() bool {
	switch e.Type {
	case EventCompleted, EventError, EventCancelled:
		return true
	default:
		return false
	}
}

// NewStartedEvent creates the opening lifecycle event for a request.
func NewStartedEvent(requestID string) StreamEvent {
	return StreamEvent{Type: EventStarted, RequestID: requestID, Timestamp: time.Now().Unix()}
}

// NewThinkingEvent creates a coordinator status event. It has no effect on
// control flow and exists for observability only.
func NewThinkingEvent(requestID, message string) StreamEvent {
	return StreamEvent{Type: EventCoordinatorThinking, RequestID: requestID, Message: message}
}

// NewTextChunkEvent creates a text fragment event.
func NewTextChunkEvent(requestID, chunk string) StreamEvent {
	return StreamEvent{Type: EventTextChunk, RequestID: requestID, Chunk: chunk}
}

// NewDataChunkEvent creates a structured payload event of the given kind.
// Kind must be one of the *_chunk event types.
func NewDataChunkEvent(kind EventType, requestID string, data map[string]any) StreamEvent {
	return StreamEvent{Type: kind, RequestID: requestID, Data: data}
}

// NewCompletedEvent creates the successful terminal event.
func NewCompletedEvent(requestID, finalResult string) StreamEvent {
	return StreamEvent{Type: EventCompleted, RequestID: requestID, FinalResult: finalResult, Timestamp: time.Now().Unix()}
}

// NewErrorEvent creates the failure terminal event. Recoverable marks errors
// a caller may reasonably retry with a fresh request (e.g. transient backend
// failures) as opposed to deterministic ones like parse failures.
func NewErrorEvent(requestID string, err error, recoverable bool) StreamEvent {
	return StreamEvent{Type: EventError, RequestID: requestID, Error: err.Error(), Recoverable: recoverable}
}

// NewCancelledEvent creates the cancellation terminal event.
func NewCancelledEvent(requestID, reason string) StreamEvent {
	return StreamEvent{Type: EventCancelled, RequestID: requestID, Reason: reason}
}
