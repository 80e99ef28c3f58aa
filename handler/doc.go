// Package handler implements the five specialized response generators
// (chat, object, document, description, comparison) behind one uniform
// execution contract. All handlers share a single generic shape configured
// by a per-kind profile: they announce themselves with a text chunk, build
// an instruction from the user prompt and the resolved task parameters,
// make one blocking inference call, re-emit the completion as chunked text
// events, and (for the non-chat kinds) emit exactly one structured payload
// event echoing the parameters. Handlers never emit terminal events and
// never touch the request registry; that is the orchestrator's job.
package handler
