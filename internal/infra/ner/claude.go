package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newsbot/internal/domain/entity"
	"newsbot/internal/resilience/retry"
)

// DefaultClaudeModel is used when Config.Model is empty.
const DefaultClaudeModel = "claude-haiku-4-5"

// Claude extracts entities with Anthropic's Messages API.
type Claude struct {
	*extractor
	client anthropic.Client
	model  string
}

// NewClaude creates a Claude extractor. SDK level retries are disabled in
// favour of the shared retry policy.
func NewClaude(cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	c := &Claude{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
	c.extractor = newExtractor("claude-ner", c, cfg.MaxInputRunes)

	slog.Debug("initialized claude entity extractor", slog.String("model", model))
	return c
}

// Extract returns the organizations, places and people mentioned in text.
func (c *Claude) Extract(ctx context.Context, text string) ([]entity.NamedEntity, error) {
	return c.extract(ctx, text)
}

func (c *Claude) complete(ctx context.Context, input string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   512,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w",
				&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: firstLine(apiErr.Error())})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// firstLine keeps the first line of an SDK error, which holds the status
// and the API message without the request dump.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
