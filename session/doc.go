// Package session persists per-session conversation history so the chat
// handler can ground follow-up requests in recent context. The in-memory
// implementation suits tests and single-process deployments; durable
// backends can implement Store.
package session
