package core

// AgentRequest is the caller input submitted to the orchestrator. Message is
// the only required field; the identifiers are opaque references into the
// caller's domain and are carried through untouched. Immutable once received.
type AgentRequest struct {
	Message   string         `json:"message"`
	UserID    string         `json:"user_id,omitempty"`
	ChatID    string         `json:"chat_id,omitempty"`
	ObjectID  string         `json:"object_id,omitempty"`
	Language  string         `json:"language,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AgentContext is the per-request execution scope derived from an
// AgentRequest at dispatch time. It lives exactly as long as the
// orchestration goroutine that created it and is never mutated afterwards.
type AgentContext struct {
	RequestID string
	UserID    string
	ChatID    string
	ObjectID  string
	Language  string
	SessionID string
	Metadata  map[string]any
	Token     *CancellationToken
}

// NewAgentContext derives a context from a request, generating a fresh
// time-ordered request id, defaulting language to "en" and metadata to an
// empty map, and taking ownership of the request's cancellation token.
func NewAgentContext(req AgentRequest, token *CancellationToken) *AgentContext {
	return newAgentContext(NewID(), req, token)
}

// NewAgentContextWithID is NewAgentContext with a caller-supplied id. The
// orchestrator uses it so the id can be registered before the goroutine spawns.
func NewAgentContextWithID(requestID string, req AgentRequest, token *CancellationToken) *AgentContext {
	return newAgentContext(requestID, req, token)
}

func newAgentContext(requestID string, req AgentRequest, token *CancellationToken) *AgentContext {
	language := req.Language
	if language == "" {
		language = "en"
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &AgentContext{
		RequestID: requestID,
		UserID:    req.UserID,
		ChatID:    req.ChatID,
		ObjectID:  req.ObjectID,
		Language:  language,
		SessionID: req.SessionID,
		Metadata:  metadata,
		Token:     token,
	}
}
