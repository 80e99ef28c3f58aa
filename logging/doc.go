// Package logging provides a tiny abstraction over slog so the pipeline can
// depend on a minimal Logger interface while allowing callers to plug any
// structured logger. It also offers a richer PipelineLogger with contextual
// helpers (component, request) and domain specific helpers for model calls
// and handler runs.
package logging
