package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saf59/cx58-agent/core"
	"github.com/saf59/cx58-agent/model"
	"github.com/saf59/cx58-agent/session"
	"github.com/saf59/cx58-agent/storage"
)

// NewChatHandler creates the default free-form conversation handler. History
// (when present) is folded into the instruction so follow-up questions stay
// grounded in the session; the reply is chunked for a streaming UX.
func NewChatHandler(backend model.Model, requestID, language string, history []session.Message, sink Sink, optFns ...func(o *Options)) Handler {
	return newBaseHandler(profile{
		kind: core.TaskChat,
		preamble: fmt.Sprintf(
			"You are a friendly chat assistant. Respond naturally in %s language.", languageName(language)),
		instruction: func(prompt string, _ core.TaskParameters) string {
			if len(history) == 0 {
				return prompt
			}
			var sb strings.Builder
			sb.WriteString("Previous conversation:\n")
			for _, msg := range history {
				sb.WriteString(msg.Role)
				sb.WriteString(": ")
				sb.WriteString(msg.Text)
				sb.WriteString("\n")
			}
			sb.WriteString("Human: ")
			sb.WriteString(prompt)
			return sb.String()
		},
	}, backend, requestID, sink, optFns...)
}

// NewObjectHandler creates the object retrieval handler.
func NewObjectHandler(backend model.Model, requestID string, sink Sink, optFns ...func(o *Options)) Handler {
	return newBaseHandler(profile{
		kind:      core.TaskObject,
		announce:  "Processing object request...\n",
		preamble:  "You are an object management system. Return structured object data in JSON format.",
		chunkKind: core.EventObjectChunk,
		instruction: func(prompt string, params core.TaskParameters) string {
			return fmt.Sprintf("You are an object retrieval assistant. User request: %s\nParameters: %s", prompt, params.Describe())
		},
		data: func(response string, _ core.TaskParameters) map[string]any {
			return map[string]any{"kind": "object", "result": response}
		},
	}, backend, requestID, sink, optFns...)
}

// NewDocumentHandler creates the document retrieval handler.
func NewDocumentHandler(backend model.Model, requestID string, sink Sink, optFns ...func(o *Options)) Handler {
	return newBaseHandler(profile{
		kind:      core.TaskDocument,
		announce:  "Processing document request...\n",
		preamble:  "You are a document management system. Return structured document data in JSON format.",
		chunkKind: core.EventDocumentChunk,
		instruction: func(prompt string, params core.TaskParameters) string {
			return fmt.Sprintf("You are a document retrieval assistant. User request: %s\nParameters: %s", prompt, params.Describe())
		},
		data: func(response string, _ core.TaskParameters) map[string]any {
			return map[string]any{"kind": "document", "result": response}
		},
	}, backend, requestID, sink, optFns...)
}

// NewDescriptionHandler creates the description handler. When an object id
// and a store are supplied it loads the image bytes and asks the backend's
// vision capability first; a missing object or a backend without vision
// degrades to the plain text path, noted in the structured payload.
func NewDescriptionHandler(backend model.Model, requestID, objectID string, objects storage.ObjectStore, sink Sink, optFns ...func(o *Options)) Handler {
	source := "text"
	h := newBaseHandler(profile{
		kind:      core.TaskDescription,
		announce:  "Generating description...\n",
		preamble:  "You are a description specialist. Produce a clear, detailed description of the requested item.",
		chunkKind: core.EventDescriptionChunk,
		instruction: func(prompt string, params core.TaskParameters) string {
			return fmt.Sprintf("You are a description assistant. User request: %s\nParameters: %s", prompt, params.Describe())
		},
		data: func(response string, _ core.TaskParameters) map[string]any {
			return map[string]any{"kind": "description", "result": response, "source": source}
		},
	}, backend, requestID, sink, optFns...)

	textComplete := h.complete
	h.complete = func(ctx context.Context, req model.Request) (string, error) {
		if objectID == "" || objects == nil {
			return textComplete(ctx, req)
		}
		image, err := objects.Get(objectID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return textComplete(ctx, req)
			}
			return "", err
		}
		visionReq := req
		visionReq.Images = [][]byte{image}
		response, err := backend.CompleteVision(ctx, visionReq)
		if errors.Is(err, model.ErrVisionUnsupported) {
			return textComplete(ctx, req)
		}
		if err != nil {
			return "", err
		}
		source = "vision"
		return response, nil
	}
	return h
}

// NewComparisonHandler creates the comparison handler.
func NewComparisonHandler(backend model.Model, requestID string, sink Sink, optFns ...func(o *Options)) Handler {
	return newBaseHandler(profile{
		kind:      core.TaskComparison,
		announce:  "Performing comparison analysis...\n",
		preamble:  "You are a comparison specialist. Provide detailed comparative analysis with pros, cons, and recommendations.",
		chunkKind: core.EventComparisonChunk,
		instruction: func(prompt string, params core.TaskParameters) string {
			return fmt.Sprintf("You are a comparison analyst. Compare items based on: %s\nParameters: %s", prompt, params.Describe())
		},
		data: func(response string, _ core.TaskParameters) map[string]any {
			return map[string]any{"kind": "comparison", "analysis": response}
		},
	}, backend, requestID, sink, optFns...)
}

// languageName maps supported language codes to the names used in model
// instructions. Unknown codes pass through unchanged.
func languageName(code string) string {
	switch strings.ToLower(code) {
	case "en", "":
		return "English"
	case "uk":
		return "Ukrainian"
	case "de":
		return "German"
	default:
		return code
	}
}
