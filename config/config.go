// Package config loads server configuration from environment variables with
// sensible defaults, so the example server deploys without any flags.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the operational parameters of the agent server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// Provider selects the inference backend: "openai", "anthropic" or "mock".
	Provider string
	// ModelName optionally overrides the provider's default model.
	ModelName string
	// APIKey authenticates against the provider. Providers also read their
	// own conventional environment variables when this is empty.
	APIKey string

	// EventBufferSize is the per-request stream capacity.
	EventBufferSize int
	// ChunkSize is the rune count per synthesized text chunk.
	ChunkSize int
	// HistoryLimit caps session messages folded into chat instructions.
	HistoryLimit int
	// RequestTimeout arms the transport's per-request cancellation watchdog.
	RequestTimeout time.Duration

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string
	// LogFormat selects the log encoding: json or text.
	LogFormat string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for anything unset or unparsable.
//
// Recognized variables: AGENT_ADDR, AGENT_PROVIDER, AGENT_MODEL,
// AGENT_API_KEY, AGENT_EVENT_BUFFER, AGENT_CHUNK_SIZE, AGENT_HISTORY_LIMIT,
// AGENT_REQUEST_TIMEOUT_SECONDS, AGENT_LOG_LEVEL, AGENT_LOG_FORMAT.
func FromEnv() *Config {
	cfg := &Config{
		Addr:            ":8080",
		Provider:        "mock",
		EventBufferSize: 100,
		ChunkSize:       64,
		HistoryLimit:    20,
		RequestTimeout:  120 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}

	if v := os.Getenv("AGENT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("AGENT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AGENT_MODEL"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("AGENT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := intEnv("AGENT_EVENT_BUFFER"); v > 0 {
		cfg.EventBufferSize = v
	}
	if v := intEnv("AGENT_CHUNK_SIZE"); v > 0 {
		cfg.ChunkSize = v
	}
	if v := intEnv("AGENT_HISTORY_LIMIT"); v > 0 {
		cfg.HistoryLimit = v
	}
	if v := intEnv("AGENT_REQUEST_TIMEOUT_SECONDS"); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := os.Getenv("AGENT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGENT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return cfg
}

func intEnv(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
