// Package ner extracts named entities from user input with an LLM.
// Claude and OpenAI backends share the same prompt, response parsing,
// circuit breaker and retry handling; only the completion call differs.
package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsbot/internal/domain/entity"
	"newsbot/internal/observability/logging"
	"newsbot/internal/resilience/circuitbreaker"
	"newsbot/internal/resilience/retry"
	"newsbot/internal/utils/text"
)

// DefaultMaxInputRunes bounds the text forwarded to the model.
const DefaultMaxInputRunes = 2000

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty model response")

// Config holds the settings shared by the LLM backed extractors.
type Config struct {
	// APIKey is the provider credential.
	APIKey string

	// Model overrides the provider default model when set.
	Model string

	// BaseURL overrides the provider endpoint. Used by tests and proxies.
	BaseURL string

	// MaxInputRunes caps the input text. Zero means DefaultMaxInputRunes.
	MaxInputRunes int
}

// completer sends the extraction prompt to a model and returns its raw answer.
type completer interface {
	complete(ctx context.Context, input string) (string, error)
}

// extractor runs a completer behind truncation, a circuit breaker and retries.
type extractor struct {
	name     string
	backend  completer
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	maxRunes int
}

func newExtractor(name string, backend completer, maxRunes int) *extractor {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxInputRunes
	}
	return &extractor{
		name:     name,
		backend:  backend,
		breaker:  circuitbreaker.New(circuitbreaker.EntityExtractorConfig(name)),
		retryCfg: retry.EntityExtractionConfig(),
		maxRunes: maxRunes,
	}
}

func (e *extractor) extract(ctx context.Context, input string) ([]entity.NamedEntity, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("extractor", e.name),
		slog.String("request_id", uuid.NewString()))

	truncated := text.Truncate(input, e.maxRunes)
	if truncated != input {
		logger.Warn("input truncated for entity extraction",
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", e.maxRunes))
	}

	var raw string
	err := retry.WithBackoff(ctx, e.retryCfg, func() error {
		out, err := circuitbreaker.Execute(e.breaker, func() (string, error) {
			return e.backend.complete(ctx, truncated)
		})
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	start := time.Now()
	entities, err := parseEntities(raw, truncated)
	if err != nil {
		logger.Warn("unparseable entity response",
			slog.String("content", text.Truncate(raw, 200)),
			slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	logger.Debug("entities extracted",
		slog.Int("count", len(entities)),
		slog.Duration("parse_duration", time.Since(start)))
	return entities, nil
}

// CircuitState reports the breaker state for health checks.
func (e *extractor) CircuitState() string {
	return e.breaker.State().String()
}
