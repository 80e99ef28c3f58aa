package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/logging"
	"github.com/saf59/cx58-agent/model"
)

// DefaultChunkSize is the rune count per synthesized text chunk.
const DefaultChunkSize = 64

// Sink receives events produced during handler execution. *core.Stream
// satisfies it; sends are best-effort and a dropped event never fails the
// handler.
type Sink interface {
	Send(ev core.StreamEvent) bool
}

// Handler is the uniform task-execution contract. Execute consumes the raw
// user prompt plus the resolved parameters and returns the final completion
// text, emitting content events along the way.
type Handler interface {
	Kind() core.TaskKind
	Execute(ctx context.Context, prompt string, params core.TaskParameters) (string, error)
}

// Options configure a handler instance.
type Options struct {
	// ChunkSize sets the rune count per emitted text chunk.
	ChunkSize int
	// ModelName optionally overrides the backend's default model.
	ModelName string
	// Logger receives execution diagnostics.
	Logger logging.Logger
}

// profile captures what distinguishes one handler kind from another.
type profile struct {
	kind      core.TaskKind
	announce  string
	preamble  string
	chunkKind core.EventType // empty for chat: no structured payload
	// instruction builds the backend prompt from user input + parameters.
	instruction func(prompt string, params core.TaskParameters) string
	// data builds the kind-specific structured payload from the completion.
	data func(response string, params core.TaskParameters) map[string]any
}

// completeFunc performs the single backend call for one execution. The
// default delegates to Model.Complete; the description handler substitutes a
// vision-first variant.
type completeFunc func(ctx context.Context, req model.Request) (string, error)

type baseHandler struct {
	profile   profile
	backend   model.Model
	requestID string
	sink      Sink
	opts      Options
	complete  completeFunc
}

func newBaseHandler(p profile, backend model.Model, requestID string, sink Sink, optFns ...func(o *Options)) *baseHandler {
	opts := Options{
		ChunkSize: DefaultChunkSize,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	h := &baseHandler{profile: p, backend: backend, requestID: requestID, sink: sink, opts: opts}
	h.complete = func(ctx context.Context, req model.Request) (string, error) {
		return backend.Complete(ctx, req)
	}
	return h
}

// Kind implements Handler.
func (h *baseHandler) Kind() core.TaskKind { return h.profile.kind }

// Execute implements Handler.
func (h *baseHandler) Execute(ctx context.Context, prompt string, params core.TaskParameters) (string, error) {
	start := time.Now()

	if h.profile.announce != "" {
		h.sink.Send(core.NewTextChunkEvent(h.requestID, h.profile.announce))
	}

	callStart := time.Now()
	response, err := h.complete(ctx, model.Request{
		Model:    h.opts.ModelName,
		Preamble: h.profile.preamble,
		Prompt:   h.profile.instruction(prompt, params),
	})
	if pl, ok := h.opts.Logger.(*logging.PipelineLogger); ok {
		pl.WithRequest(h.requestID).LogModelCall(h.backend.Info().Name, time.Since(callStart), err)
	}
	if err != nil {
		h.opts.Logger.Error("backend call failed", "kind", string(h.profile.kind), "error", err)
		return "", fmt.Errorf("%s handler: %w", h.profile.kind, err)
	}

	for _, chunk := range chunkText(response, h.opts.ChunkSize) {
		h.sink.Send(core.NewTextChunkEvent(h.requestID, chunk))
	}

	if h.profile.chunkKind != "" {
		data := h.profile.data(response, params)
		data["parameters"] = params.Echo()
		h.sink.Send(core.NewDataChunkEvent(h.profile.chunkKind, h.requestID, data))
	}

	h.opts.Logger.Debug("handler completed", "kind", string(h.profile.kind), "duration", time.Since(start))
	return response, nil
}

// chunkText splits s into rune-count bounded fragments preserving order.
// Emitting the completion in pieces gives the consumer a streaming UX even
// though the underlying backend call is blocking.
func chunkText(s string, size int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
