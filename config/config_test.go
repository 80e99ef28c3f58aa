package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, 100, cfg.EventBufferSize)
	assert.Equal(t, 64, cfg.ChunkSize)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AGENT_ADDR", ":9090")
	t.Setenv("AGENT_PROVIDER", "anthropic")
	t.Setenv("AGENT_CHUNK_SIZE", "16")
	t.Setenv("AGENT_REQUEST_TIMEOUT_SECONDS", "30")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, 16, cfg.ChunkSize)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("AGENT_CHUNK_SIZE", "not-a-number")
	t.Setenv("AGENT_EVENT_BUFFER", "-5")

	cfg := FromEnv()
	assert.Equal(t, 64, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.EventBufferSize)
}
