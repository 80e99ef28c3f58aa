// Package core provides the foundational domain types for the request
// orchestration pipeline. It defines:
//
//   - StreamEvent (the closed wire-level event protocol)
//   - AgentRequest / AgentContext (caller input and per-request derived state)
//   - CancellationToken / RequestManager (cooperative cancellation primitives)
//   - Task / TaskParameters (the classifier output consumed by handlers)
//   - Stream (a bounded, best-effort event channel)
//
// The package intentionally keeps implementation concerns (parsing,
// classification, handlers, transport) out of scope, exposing small types so
// the surrounding packages stay decoupled. Cancellation here is advisory:
// the token is a one-way latch observed at explicit checkpoints, never a
// preemptive kill switch.
package core
