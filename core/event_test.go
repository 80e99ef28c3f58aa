package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEventRoundTrip(t *testing.T) {
	events := []StreamEvent{
		NewStartedEvent("req-1"),
		NewThinkingEvent("req-1", "Analyzing request and determining task type..."),
		NewTextChunkEvent("req-1", "partial text"),
		NewDataChunkEvent(EventObjectChunk, "req-1", map[string]any{"count": "2"}),
		NewDataChunkEvent(EventDocumentChunk, "req-1", map[string]any{"kind": "document"}),
		NewDataChunkEvent(EventDescriptionChunk, "req-1", map[string]any{"kind": "description"}),
		NewDataChunkEvent(EventComparisonChunk, "req-1", map[string]any{"kind": "comparison"}),
		NewCompletedEvent("req-1", "final answer"),
		NewErrorEvent("req-1", errors.New("backend unavailable"), true),
		NewErrorEvent("req-1", errors.New("empty message"), false),
		NewCancelledEvent("req-1", "user cancelled"),
	}

	for _, ev := range events {
		data, err := json.Marshal(ev)
		require.NoError(t, err, "marshal %s", ev.Type)

		var decoded StreamEvent
		require.NoError(t, json.Unmarshal(data, &decoded), "unmarshal %s", ev.Type)
		assert.Equal(t, ev, decoded, "round trip %s", ev.Type)
	}
}

func TestStreamEventTypeTag(t *testing.T) {
	data, err := json.Marshal(NewTextChunkEvent("req-9", "hi"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "text_chunk", raw["type"])
	assert.Equal(t, "req-9", raw["request_id"])
	assert.Equal(t, "hi", raw["chunk"])
	assert.NotContains(t, raw, "final_result")
	assert.NotContains(t, raw, "error")
}

func TestErrorEventAlwaysCarriesRecoverable(t *testing.T) {
	data, err := json.Marshal(NewErrorEvent("req-3", errors.New("parse error"), false))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "recoverable")
	assert.Equal(t, false, raw["recoverable"])
}

func TestStreamEventIsTerminal(t *testing.T) {
	assert.True(t, NewCompletedEvent("r", "done").IsTerminal())
	assert.True(t, NewErrorEvent("r", errors.New("boom"), false).IsTerminal())
	assert.True(t, NewCancelledEvent("r", "stop").IsTerminal())

	assert.False(t, NewStartedEvent("r").IsTerminal())
	assert.False(t, NewThinkingEvent("r", "m").IsTerminal())
	assert.False(t, NewTextChunkEvent("r", "c").IsTerminal())
	assert.False(t, NewDataChunkEvent(EventObjectChunk, "r", nil).IsTerminal())
}
