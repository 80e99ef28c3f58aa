package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T) (*PipelineLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := New(&Config{Level: slog.LevelDebug, Format: "json", Output: &buf})
	return l, &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestPipelineLoggerKeyValueArgs(t *testing.T) {
	l, buf := newBufferedLogger(t)

	// Call sites pass slog-style key-value pairs; the message itself must
	// come through untouched with the pairs as attributes.
	l.Info("request accepted", "request_id", "req-1", "language", "en")

	entry := lastLine(t, buf)
	assert.Equal(t, "request accepted", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "en", entry["language"])
}

func TestPipelineLoggerScoping(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.WithComponent("orchestrator").WithRequest("req-1").Info("request classified", "kind", "object")

	entry := lastLine(t, buf)
	assert.Equal(t, "request classified", entry["msg"])
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "object", entry["kind"])
}

func TestLogModelCall(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.LogModelCall("mock", 5*time.Millisecond, nil)
	entry := lastLine(t, buf)
	assert.Equal(t, "Model call completed", entry["msg"])
	assert.Equal(t, "mock", entry["model"])

	l.LogModelCall("mock", time.Millisecond, errors.New("boom"))
	entry = lastLine(t, buf)
	assert.Equal(t, "Model call failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}

func TestNoOpLoggerSatisfiesInterface(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
}
