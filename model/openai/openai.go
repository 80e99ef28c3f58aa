// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts the normalized Request into the SDK's
// message format; only blocking completion is exposed since the pipeline
// synthesizes its own streaming UX.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/saf59/cx58-agent/model"
)

// Options configure the OpenAI model adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements blocking text completion.
func (m *Model) Complete(ctx context.Context, req model.Request) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Preamble != "" {
		messages = append(messages, openai.SystemMessage(req.Preamble))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.modelName(req),
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		// The SDK retries deterministic failures itself; whatever still
		// surfaces here is worth one more request from the caller's side.
		return "", model.Transient(fmt.Errorf("openai api error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteVision implements Model. Image input is not wired for this
// provider; callers fall back to the text path.
func (m *Model) CompleteVision(ctx context.Context, req model.Request) (string, error) {
	return "", model.ErrVisionUnsupported
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:           m.opts.Model,
		Provider:       "openai",
		SupportsVision: false,
	}
}

func (m *Model) modelName(req model.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return m.opts.Model
}
