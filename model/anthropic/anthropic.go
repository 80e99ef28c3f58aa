// Package anthropic provides a model wrapper for the Anthropic Claude API.
// It supports both plain text completion and vision completion with base64
// encoded image blocks.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/saf59/cx58-agent/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Complete implements blocking text completion.
func (m *Model) Complete(ctx context.Context, req model.Request) (string, error) {
	return m.complete(ctx, req, nil)
}

// CompleteVision implements vision completion: image bytes are attached to
// the user message as base64 encoded image blocks.
func (m *Model) CompleteVision(ctx context.Context, req model.Request) (string, error) {
	if len(req.Images) == 0 {
		return "", fmt.Errorf("anthropic: vision completion without images")
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images))
	for _, img := range req.Images {
		mediaType := http.DetectContentType(img)
		if !strings.HasPrefix(mediaType, "image/") {
			return "", fmt.Errorf("anthropic: unsupported media type %s", mediaType)
		}
		encoded := base64.StdEncoding.EncodeToString(img)
		blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, encoded))
	}

	return m.complete(ctx, req, blocks)
}

func (m *Model) complete(ctx context.Context, req model.Request, extra []anthropic.ContentBlockParamUnion) (string, error) {
	content := append([]anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.Prompt)}, extra...)

	params := anthropic.MessageNewParams{
		Model:       m.modelName(req),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(content...)},
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.Preamble != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Preamble}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", model.Transient(fmt.Errorf("anthropic api error: %w", err))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty completion")
	}
	return sb.String(), nil
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:           string(m.opts.Model),
		Provider:       "anthropic",
		SupportsVision: true,
	}
}

func (m *Model) modelName(req model.Request) anthropic.Model {
	if req.Model != "" {
		return anthropic.Model(req.Model)
	}
	return m.opts.Model
}
