package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamOrdering(t *testing.T) {
	stream := NewStream(10)

	assert.True(t, stream.Send(NewStartedEvent("r")))
	assert.True(t, stream.Send(NewTextChunkEvent("r", "a")))
	assert.True(t, stream.Send(NewCompletedEvent("r", "a")))
	stream.Close()

	var types []EventType
	for ev := range stream.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{EventStarted, EventTextChunk, EventCompleted}, types)
}

func TestStreamDropsWhenFull(t *testing.T) {
	stream := NewStream(2)

	assert.True(t, stream.Send(NewTextChunkEvent("r", "1")))
	assert.True(t, stream.Send(NewTextChunkEvent("r", "2")))

	// Buffer exhausted and nobody draining: send must not block.
	assert.False(t, stream.Send(NewTextChunkEvent("r", "3")))
	assert.Equal(t, int64(1), stream.Dropped())
}

func TestStreamSendAfterClose(t *testing.T) {
	stream := NewStream(2)
	stream.Close()
	stream.Close() // idempotent

	assert.False(t, stream.Send(NewTextChunkEvent("r", "late")))
	assert.Equal(t, int64(1), stream.Dropped())

	_, open := <-stream.Events()
	require.False(t, open)
}
