// Package transport exposes the orchestrator over HTTP using server-sent
// events. One POST to /agent/stream submits a request and holds the
// connection open while the event stream is drained into SSE frames; the
// connection ends after the terminal event. Cancellation and status are
// plain JSON endpoints.
//
// The HTTP handler is the single consumer of each request's stream. A client
// that disconnects mid-stream only causes events to be dropped; the
// orchestration goroutine always runs to its terminal event.
package transport
