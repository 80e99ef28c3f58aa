package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/logging"
	"github.com/saf59/cx58-agent/orchestrator"
)

// Options configure the HTTP server adapter.
type Options struct {
	// Logger receives transport diagnostics.
	Logger logging.Logger
	// RequestTimeout arms a per-request watchdog that requests cooperative
	// cancellation once exceeded. Zero disables it. Cancellation is advisory,
	// so a backend call already in flight still runs to completion.
	RequestTimeout time.Duration
}

// Server adapts an Orchestrator to HTTP.
type Server struct {
	orch *orchestrator.Orchestrator
	opts Options
}

// NewServer creates the HTTP adapter over the given orchestrator.
func NewServer(orch *orchestrator.Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{orch: orch, opts: opts}
}

// RegisterRoutes attaches the agent endpoints to an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/agent/stream", s.handleStream)
	e.POST("/agent/requests/:id/cancel", s.handleCancel)
	e.GET("/status", s.handleStatus)
}

// handleStream submits the request and streams its events as SSE frames
// until the terminal event.
func (s *Server) handleStream(c echo.Context) error {
	var req core.AgentRequest
	if err := c.Bind(&req); err != nil {
		s.opts.Logger.Warn("invalid stream request body", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	requestID, events, err := s.orch.Submit(c.Request().Context(), req)
	if err != nil {
		s.opts.Logger.Warn("submit rejected", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	s.opts.Logger.Info("streaming request", "request_id", requestID)

	if s.opts.RequestTimeout > 0 {
		watchdog := time.AfterFunc(s.opts.RequestTimeout, func() {
			if s.orch.Cancel(requestID) {
				s.opts.Logger.Warn("request timeout exceeded", "request_id", requestID, "timeout", s.opts.RequestTimeout)
			}
		})
		defer watchdog.Stop()
	}

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			s.opts.Logger.Error("event marshal failed", "request_id", requestID, "error", err)
			continue
		}
		fmt.Fprintf(c.Response(), "data: %s\n\n", data)
		c.Response().Flush()
		if ev.IsTerminal() {
			break
		}
	}
	return nil
}

// handleCancel requests cooperative cancellation. 404 means the request
// already finished or never existed; that is informational, not a failure.
func (s *Server) handleCancel(c echo.Context) error {
	requestID := c.Param("id")
	found := s.orch.Cancel(requestID)
	body := map[string]any{"request_id": requestID, "cancelled": found}
	if !found {
		return c.JSON(http.StatusNotFound, body)
	}
	return c.JSON(http.StatusOK, body)
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":          "healthy",
		"active_requests": s.orch.Active(),
	})
}
