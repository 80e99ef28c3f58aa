package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/logging"
	"github.com/saf59/cx58-agent/model"
	"github.com/saf59/cx58-agent/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads the stream to completion, failing the test if the producer
// does not finish in time.
func drain(t *testing.T, ch <-chan core.StreamEvent) []core.StreamEvent {
	t.Helper()
	var events []core.StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out draining event stream")
		}
	}
}

func terminals(events []core.StreamEvent) []core.StreamEvent {
	var out []core.StreamEvent
	for _, ev := range events {
		if ev.IsTerminal() {
			out = append(out, ev)
		}
	}
	return out
}

func TestSubmitHappyPath(t *testing.T) {
	o := New(model.NewMockModel("m"))
	id, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "show me the last 5 objects"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	events := drain(t, ch)
	require.NotEmpty(t, events)

	assert.Equal(t, core.EventStarted, events[0].Type)
	assert.Equal(t, core.EventCoordinatorThinking, events[1].Type)
	assert.Equal(t, thinkingMessage, events[1].Message)

	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, core.EventCompleted, term[0].Type)
	assert.Equal(t, core.EventCompleted, events[len(events)-1].Type, "terminal event must be last")
	assert.NotEmpty(t, term[0].FinalResult)

	var sawObjectChunk bool
	for _, ev := range events {
		assert.Equal(t, id, ev.RequestID)
		if ev.Type == core.EventObjectChunk {
			sawObjectChunk = true
		}
	}
	assert.True(t, sawObjectChunk)
	assert.Equal(t, 0, o.Active())
}

func TestSubmitEmptyMessage(t *testing.T) {
	o := New(model.NewMockModel("m"))
	_, _, err := o.Submit(context.Background(), core.AgentRequest{Message: "   \n\t "})
	require.Error(t, err)
	assert.Equal(t, 0, o.Active())
}

func TestCancelBeforeFirstCheckpoint(t *testing.T) {
	o := New(model.NewMockModel("m"))

	// Drive the state machine directly with a pre-cancelled token to pin
	// down the checkpoint ordering without racing the goroutine spawn.
	token := o.registry.Register("req-x")
	token.Cancel()
	ac := core.NewAgentContextWithID("req-x", core.AgentRequest{Message: "hello"}, token)
	stream := core.NewStream(16)
	o.run(context.Background(), ac, "hello", stream)

	events := drain(t, stream.Events())
	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, core.EventCancelled, term[0].Type)
	assert.Equal(t, cancelReason, term[0].Reason)
	assert.Equal(t, core.EventCancelled, events[len(events)-1].Type)
	assert.Equal(t, 0, o.Active())
}

func TestCancelObservedFromHandlerError(t *testing.T) {
	backend := model.NewMockModel("m")
	backend.FailWith(core.ErrCancelled)
	o := New(backend)

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "hello"})
	require.NoError(t, err)

	events := drain(t, ch)
	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, core.EventCancelled, term[0].Type)
	assert.Equal(t, cancelReason, term[0].Reason)
}

func TestParseFailureIsUnrecoverable(t *testing.T) {
	o := New(model.NewMockModel("m"))
	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "?!?"})
	require.NoError(t, err)

	events := drain(t, ch)
	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, core.EventError, term[0].Type)
	assert.False(t, term[0].Recoverable)
	assert.Contains(t, term[0].Error, "parse error")
	assert.Equal(t, 0, o.Active())
}

func TestTransientBackendErrorIsRecoverable(t *testing.T) {
	backend := model.NewMockModel("m")
	backend.FailWith(model.Transient(errors.New("rate limited")))
	o := New(backend)

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "hello"})
	require.NoError(t, err)

	term := terminals(drain(t, ch))
	require.Len(t, term, 1)
	assert.Equal(t, core.EventError, term[0].Type)
	assert.True(t, term[0].Recoverable)
}

func TestPermanentBackendErrorIsNotRecoverable(t *testing.T) {
	backend := model.NewMockModel("m")
	backend.FailWith(errors.New("invalid api key"))
	o := New(backend)

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "hello"})
	require.NoError(t, err)

	term := terminals(drain(t, ch))
	require.Len(t, term, 1)
	assert.Equal(t, core.EventError, term[0].Type)
	assert.False(t, term[0].Recoverable)
}

func TestCancelUnknownID(t *testing.T) {
	o := New(model.NewMockModel("m"))
	assert.False(t, o.Cancel("never-registered"))
}

func TestCancelAfterCompletionReturnsFalse(t *testing.T) {
	o := New(model.NewMockModel("m"))
	id, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "hello"})
	require.NoError(t, err)
	drain(t, ch)

	assert.False(t, o.Cancel(id))
}

func TestSessionHistoryRoundTrip(t *testing.T) {
	backend := model.NewMockModel("m")
	sessions := session.NewInMemoryStore()
	o := New(backend, func(opt *Options) { opt.Sessions = sessions })

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "hello there", SessionID: "s1"})
	require.NoError(t, err)
	drain(t, ch)

	history, err := sessions.History("s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello there", history[0].Text)
	assert.Equal(t, "assistant", history[1].Role)

	// A follow-up chat request in the same session sees the history.
	_, ch, err = o.Submit(context.Background(), core.AgentRequest{Message: "and again", SessionID: "s1"})
	require.NoError(t, err)
	drain(t, ch)

	calls := backend.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Prompt, "Previous conversation:")
	assert.Contains(t, calls[1].Prompt, "hello there")
	assert.Contains(t, calls[1].Prompt, "Human: and again")
}

func TestPerKindModelOverride(t *testing.T) {
	defaultBackend := model.NewMockModel("default")
	objectBackend := model.NewMockModel("objects")
	o := New(defaultBackend, func(opt *Options) {
		opt.Models = map[core.TaskKind]model.Model{core.TaskObject: objectBackend}
	})

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "show all objects"})
	require.NoError(t, err)
	drain(t, ch)

	assert.Empty(t, defaultBackend.Calls())
	assert.Len(t, objectBackend.Calls(), 1)
}

func TestStalledConsumerNeverBlocksProducer(t *testing.T) {
	o := New(model.NewMockModel("m"), func(opt *Options) { opt.EventBufferSize = 1 })

	_, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "show me the last 5 objects"})
	require.NoError(t, err)

	// Read nothing. The producer must still finish and unregister.
	require.Eventually(t, func() bool { return o.Active() == 0 },
		2*time.Second, 10*time.Millisecond)

	// Whatever survived in the buffer is still delivered in order, then the
	// channel closes.
	drain(t, ch)
}

func TestPipelineLoggerRecordsRuns(t *testing.T) {
	var buf bytes.Buffer
	plog := logging.New(&logging.Config{Level: slog.LevelDebug, Format: "json", Output: &buf})
	o := New(model.NewMockModel("m"), func(opt *Options) { opt.Logger = plog })

	id, ch, err := o.Submit(context.Background(), core.AgentRequest{Message: "show me the last 5 objects"})
	require.NoError(t, err)
	drain(t, ch)

	var sawModelCall, sawHandlerRun bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		switch entry["msg"] {
		case "Model call completed":
			sawModelCall = true
			assert.Equal(t, "m", entry["model"])
			assert.Equal(t, id, entry["request_id"])
		case "Handler execution completed":
			sawHandlerRun = true
			assert.Equal(t, "object", entry["task_kind"])
			assert.Equal(t, id, entry["request_id"])
		}
	}
	assert.True(t, sawModelCall, "model call was not logged")
	assert.True(t, sawHandlerRun, "handler run was not logged")
}

func TestConcurrentSubmissions(t *testing.T) {
	o := New(model.NewMockModel("m"))
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, ch, err := o.Submit(context.Background(), core.AgentRequest{
				Message: fmt.Sprintf("request number %d", i),
			})
			if !assert.NoError(t, err) {
				return
			}
			events := drain(t, ch)
			term := terminals(events)
			assert.Len(t, term, 1)
			for _, ev := range events {
				assert.Equal(t, id, ev.RequestID)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, o.Active())
}
