package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"newsbot/internal/domain/entity"
	"newsbot/internal/resilience/retry"
)

// DefaultOpenAIModel is used when Config.Model is empty.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI extracts entities with the chat completions API in JSON mode.
type OpenAI struct {
	*extractor
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI extractor. Config.BaseURL also allows any
// OpenAI compatible endpoint.
func NewOpenAI(cfg Config) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	o := &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
	o.extractor = newExtractor("openai-ner", o, cfg.MaxInputRunes)

	slog.Debug("initialized openai entity extractor", slog.String("model", model))
	return o
}

// Extract returns the organizations, places and people mentioned in text.
func (o *OpenAI) Extract(ctx context.Context, text string) ([]entity.NamedEntity, error) {
	return o.extract(ctx, text)
}

func (o *OpenAI) complete(ctx context.Context, input string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		Temperature: 0,
		MaxTokens:   512,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai api error: %w",
				&retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("openai api error: %w",
				&retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: firstLine(reqErr.Error())})
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
