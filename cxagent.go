// Package cxagent provides a high-level façade over the orchestration
// pipeline. Most applications interact with this package by:
//  1. Creating an Agent via New() with an inference backend (optionally
//     overriding the default in-memory stores)
//  2. Submitting requests asynchronously (Submit) or synchronously
//     (SubmitSync)
//  3. Cancelling in-flight requests by id (Cancel)
//
// The façade delegates all lifecycle work to orchestrator.Orchestrator while
// keeping setup concise. The defaults are safe for local development and
// testing; production deployments typically supply durable stores and a
// structured logger.
package cxagent

import (
	"context"
	"fmt"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/logging"
	"github.com/saf59/cx58-agent/model"
	"github.com/saf59/cx58-agent/orchestrator"
	"github.com/saf59/cx58-agent/session"
	"github.com/saf59/cx58-agent/storage"
)

// Options configures the Agent façade. Any unset store is initialized with
// an in-memory implementation.
type Options struct {
	// Sessions persists chat history between requests of one session.
	Sessions session.Store
	// Objects backs the description handler's vision path.
	Objects storage.ObjectStore
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
	// EventBufferSize sets the per-request stream capacity.
	EventBufferSize int
	// ChunkSize sets the rune count per synthesized text chunk.
	ChunkSize int
}

// Agent is the high-level façade aggregating the orchestrator and its
// default services.
type Agent struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates an Agent over the given backend with optional overrides.
func New(backend model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Sessions: session.NewInMemoryStore(),
		Objects:  storage.NewInMemoryStore(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(backend, func(o *orchestrator.Options) {
		o.Sessions = opts.Sessions
		o.Objects = opts.Objects
		o.Logger = opts.Logger
		if opts.EventBufferSize > 0 {
			o.EventBufferSize = opts.EventBufferSize
		}
		if opts.ChunkSize > 0 {
			o.ChunkSize = opts.ChunkSize
		}
	})

	return &Agent{opts: opts, orch: orch}
}

// Submit starts an asynchronous request returning its id and event stream.
func (a *Agent) Submit(ctx context.Context, req core.AgentRequest) (string, <-chan core.StreamEvent, error) {
	return a.orch.Submit(ctx, req)
}

// SubmitSync is a synchronous helper that drains the event stream and
// returns every event. The terminal event's failure, if any, is surfaced as
// the returned error alongside the collected events.
func (a *Agent) SubmitSync(ctx context.Context, req core.AgentRequest) (string, []core.StreamEvent, error) {
	requestID, ch, err := a.orch.Submit(ctx, req)
	if err != nil {
		return "", nil, err
	}

	var events []core.StreamEvent
	for {
		select {
		case <-ctx.Done():
			// The orchestration goroutine keeps running to its terminal
			// event; only this collector gives up.
			return requestID, events, ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return requestID, events, nil
			}
			events = append(events, ev)
			if ev.Type == core.EventError {
				return requestID, events, fmt.Errorf("request %s failed: %s", requestID, ev.Error)
			}
		}
	}
}

// Cancel requests cooperative cancellation of an in-flight request.
func (a *Agent) Cancel(requestID string) bool {
	return a.orch.Cancel(requestID)
}

// Active returns the number of in-flight requests.
func (a *Agent) Active() int {
	return a.orch.Active()
}
