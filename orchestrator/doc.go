// Package orchestrator drives the full lifecycle of an agent request:
// intent classification, handler dispatch, ordered event streaming and
// cooperative cancellation.
//
// Submit registers a cancellation token synchronously, then runs a fixed
// state machine in a dedicated goroutine: a started event, a coordinator
// status event, a cancellation checkpoint, prompt parsing and task
// classification, a second checkpoint, handler execution, and exactly one
// terminal event (completed, error or cancelled) before the stream closes.
// The token registry entry is removed exactly once regardless of outcome.
//
// Cancellation is advisory. Cancel flips a latch that is only observed at
// the checkpoints between pipeline stages; a backend call already in flight
// runs to completion and its cost is incurred even when the result is
// discarded. Event delivery is best-effort: a consumer that stops draining
// loses events but never blocks or leaks the orchestration goroutine.
package orchestrator
