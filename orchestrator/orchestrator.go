package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/handler"
	"github.com/saf59/cx58-agent/logging"
	"github.com/saf59/cx58-agent/model"
	"github.com/saf59/cx58-agent/prompt"
	"github.com/saf59/cx58-agent/session"
	"github.com/saf59/cx58-agent/storage"
)

const (
	// thinkingMessage is the coordinator status line emitted while the
	// request is being classified.
	thinkingMessage = "Analyzing request and determining task type..."
	// cancelReason is attached to every cancelled terminal event.
	cancelReason = "User cancelled"
	// defaultHistoryLimit caps how many session messages are folded into a
	// chat instruction.
	defaultHistoryLimit = 20
)

// Options configure an Orchestrator.
type Options struct {
	// Models optionally overrides the default backend per task kind.
	Models map[core.TaskKind]model.Model
	// Sessions persists chat history. Nil disables session handling.
	Sessions session.Store
	// Objects backs the description handler's vision path. Nil disables it.
	Objects storage.ObjectStore
	// Logger receives lifecycle diagnostics.
	Logger logging.Logger
	// EventBufferSize sets the per-request stream capacity.
	EventBufferSize int
	// ChunkSize sets the rune count per synthesized text chunk.
	ChunkSize int
	// HistoryLimit caps the session messages given to the chat handler.
	HistoryLimit int
}

// Orchestrator executes agent requests. It is safe for concurrent use; each
// submitted request runs in its own goroutine with its own event stream.
type Orchestrator struct {
	backend  model.Model
	opts     Options
	registry *core.RequestManager
}

// New creates an Orchestrator over the given default backend.
func New(backend model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:          logging.NoOpLogger{},
		EventBufferSize: core.DefaultStreamCapacity,
		ChunkSize:       handler.DefaultChunkSize,
		HistoryLimit:    defaultHistoryLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		backend:  backend,
		opts:     opts,
		registry: core.NewRequestManager(),
	}
}

// Submit validates the request, registers its cancellation token and starts
// the orchestration goroutine. It returns the generated request id and the
// event stream; the id is registered before Submit returns, so a caller can
// cancel immediately. The returned channel is closed after the terminal
// event.
func (o *Orchestrator) Submit(ctx context.Context, req core.AgentRequest) (string, <-chan core.StreamEvent, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", nil, fmt.Errorf("submit: message must not be empty")
	}

	requestID := core.NewID()
	token := o.registry.Register(requestID)
	agentCtx := core.NewAgentContextWithID(requestID, req, token)
	stream := core.NewStream(o.opts.EventBufferSize)

	o.opts.Logger.Info("request accepted", "request_id", requestID, "language", agentCtx.Language)
	go o.run(ctx, agentCtx, message, stream)

	return requestID, stream.Events(), nil
}

// Cancel requests cooperative cancellation of an in-flight request. It
// reports whether the id was found; false means the request already finished
// or never existed.
func (o *Orchestrator) Cancel(requestID string) bool {
	found := o.registry.Cancel(requestID)
	o.opts.Logger.Info("cancel requested", "request_id", requestID, "found", found)
	return found
}

// Active returns the number of in-flight requests.
func (o *Orchestrator) Active() int {
	return o.registry.Active()
}

// run is the per-request state machine. It always emits exactly one terminal
// event, unregisters the token exactly once and closes the stream last.
func (o *Orchestrator) run(ctx context.Context, ac *core.AgentContext, message string, stream *core.Stream) {
	defer stream.Close()
	defer o.registry.Unregister(ac.RequestID)

	stream.Send(core.NewStartedEvent(ac.RequestID))
	stream.Send(core.NewThinkingEvent(ac.RequestID, thinkingMessage))

	if err := ac.Token.Check(); err != nil {
		stream.Send(core.NewCancelledEvent(ac.RequestID, cancelReason))
		return
	}

	pc, err := prompt.Parse(ac.Language, message)
	if err != nil {
		o.opts.Logger.Warn("prompt parse failed", "request_id", ac.RequestID, "error", err)
		stream.Send(core.NewErrorEvent(ac.RequestID, err, false))
		return
	}
	task := prompt.Classify(pc)
	o.opts.Logger.Debug("request classified", "request_id", ac.RequestID, "kind", string(task.Kind))

	if err := ac.Token.Check(); err != nil {
		stream.Send(core.NewCancelledEvent(ac.RequestID, cancelReason))
		return
	}

	start := time.Now()
	result, err := o.handlerFor(task.Kind, ac, stream).Execute(ctx, message, task.Parameters)
	if pl, ok := o.opts.Logger.(*logging.PipelineLogger); ok {
		pl.WithRequest(ac.RequestID).LogHandlerRun(string(task.Kind), time.Since(start), err)
	}
	if err != nil {
		if errors.Is(err, core.ErrCancelled) {
			stream.Send(core.NewCancelledEvent(ac.RequestID, cancelReason))
			return
		}
		o.opts.Logger.Error("handler failed", "request_id", ac.RequestID, "kind", string(task.Kind), "error", err)
		stream.Send(core.NewErrorEvent(ac.RequestID, err, model.IsTransient(err)))
		return
	}

	o.recordHistory(ac, message, result)
	stream.Send(core.NewCompletedEvent(ac.RequestID, result))
}

// handlerFor instantiates the handler for the classified kind, wiring the
// backend override, stream sink and shared options.
func (o *Orchestrator) handlerFor(kind core.TaskKind, ac *core.AgentContext, sink handler.Sink) handler.Handler {
	backend := o.backendFor(kind)
	optFn := func(opt *handler.Options) {
		opt.ChunkSize = o.opts.ChunkSize
		opt.Logger = o.opts.Logger
	}

	switch kind {
	case core.TaskObject:
		return handler.NewObjectHandler(backend, ac.RequestID, sink, optFn)
	case core.TaskDocument:
		return handler.NewDocumentHandler(backend, ac.RequestID, sink, optFn)
	case core.TaskDescription:
		return handler.NewDescriptionHandler(backend, ac.RequestID, ac.ObjectID, o.opts.Objects, sink, optFn)
	case core.TaskComparison:
		return handler.NewComparisonHandler(backend, ac.RequestID, sink, optFn)
	default:
		return handler.NewChatHandler(backend, ac.RequestID, ac.Language, o.historyFor(ac), sink, optFn)
	}
}

func (o *Orchestrator) backendFor(kind core.TaskKind) model.Model {
	if override, ok := o.opts.Models[kind]; ok && override != nil {
		return override
	}
	return o.backend
}

func (o *Orchestrator) historyFor(ac *core.AgentContext) []session.Message {
	if ac.SessionID == "" || o.opts.Sessions == nil {
		return nil
	}
	history, err := o.opts.Sessions.History(ac.SessionID, o.opts.HistoryLimit)
	if err != nil {
		o.opts.Logger.Warn("session history load failed", "request_id", ac.RequestID, "error", err)
		return nil
	}
	return history
}

// recordHistory appends the user turn and the final result to the session.
// Best-effort: a store failure is logged but never fails the request.
func (o *Orchestrator) recordHistory(ac *core.AgentContext, message, result string) {
	if ac.SessionID == "" || o.opts.Sessions == nil {
		return
	}
	if err := o.opts.Sessions.Append(ac.SessionID, session.Message{Role: "user", Text: message}); err != nil {
		o.opts.Logger.Warn("session append failed", "request_id", ac.RequestID, "error", err)
		return
	}
	if err := o.opts.Sessions.Append(ac.SessionID, session.Message{Role: "assistant", Text: result}); err != nil {
		o.opts.Logger.Warn("session append failed", "request_id", ac.RequestID, "error", err)
	}
}
