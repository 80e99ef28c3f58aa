// Package model defines the boundary to the external inference backend. The
// pipeline only needs blocking text completion (plus a vision-capable
// variant); streaming UX is synthesized upstream by chunking the final text,
// so no streaming is required of the backend itself. Concrete adapters for
// hosted providers live in the subpackages model/openai and model/anthropic;
// MockModel serves tests and local examples.
package model
