package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"newsbot/internal/domain/entity"
	"newsbot/internal/observability/logging"
	"newsbot/internal/observability/tracing"
	"newsbot/internal/usecase/intent"
)

const (
	defaultMaxArticles = 5
	defaultNewsTimeout = 10 * time.Second
	defaultNERTimeout  = 15 * time.Second
)

// Reply is the outcome of one turn.
type Reply struct {
	Decision intent.Decision
	Text     string
}

// ServiceConfig wires the collaborators of a Service.
// Extractor and Metrics are optional.
type ServiceConfig struct {
	Classifier  *intent.Classifier
	Extractor   EntityExtractor
	News        NewsLookup
	Formatter   *Formatter
	Metrics     MetricsRecorder
	MaxArticles int
	NewsTimeout time.Duration
	NERTimeout  time.Duration
}

// Service answers one user utterance at a time.
type Service struct {
	classifier  *intent.Classifier
	extractor   EntityExtractor
	news        NewsLookup
	formatter   *Formatter
	metrics     MetricsRecorder
	maxArticles int
	newsTimeout time.Duration
	nerTimeout  time.Duration
}

// NewService creates a Service. Classifier, News and Formatter are required.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("chat service: classifier is required")
	}
	if cfg.News == nil {
		return nil, fmt.Errorf("chat service: news lookup is required")
	}
	if cfg.Formatter == nil {
		return nil, fmt.Errorf("chat service: formatter is required")
	}

	s := &Service{
		classifier:  cfg.Classifier,
		extractor:   cfg.Extractor,
		news:        cfg.News,
		formatter:   cfg.Formatter,
		metrics:     cfg.Metrics,
		maxArticles: cfg.MaxArticles,
		newsTimeout: cfg.NewsTimeout,
		nerTimeout:  cfg.NERTimeout,
	}
	if s.metrics == nil {
		s.metrics = NoopMetrics{}
	}
	if s.maxArticles <= 0 {
		s.maxArticles = defaultMaxArticles
	}
	if s.newsTimeout <= 0 {
		s.newsTimeout = defaultNewsTimeout
	}
	if s.nerTimeout <= 0 {
		s.nerTimeout = defaultNERTimeout
	}
	return s, nil
}

// NewsConfigured reports whether news lookups can be served.
func (s *Service) NewsConfigured() bool {
	return s.news.Configured()
}

// Respond classifies text and renders the reply. It never fails: every
// collaborator error is folded into the reply text.
func (s *Service) Respond(ctx context.Context, text string) Reply {
	start := time.Now()
	ctx, span := tracing.GetTracer().Start(ctx, "chat.Respond")
	defer span.End()

	entities := s.extractEntities(ctx, text)
	decision := s.classifier.Classify(text, entities)

	logger := logging.FromContext(ctx)
	logger.DebugContext(ctx, "intent classified",
		slog.String("intent", decision.Intent.String()),
		slog.String("keyword", decision.Keyword),
		slog.String("category", string(decision.Request.Category)),
		slog.String("topic", decision.Request.Topic),
		slog.Int("entities", len(entities)))

	span.SetAttributes(
		attribute.String("chat.intent", decision.Intent.String()),
		attribute.String("chat.keyword", decision.Keyword),
	)

	var reply string
	switch decision.Intent {
	case entity.IntentNewsQuery:
		reply = s.answerNews(ctx, decision.Request)
	case entity.IntentTimeQuery:
		reply = s.formatter.Time()
	case entity.IntentDateQuery:
		reply = s.formatter.Date()
	default:
		reply = s.formatter.Phrase(decision.Intent)
	}

	s.metrics.RecordTurn(decision.Intent.String(), time.Since(start))
	return Reply{Decision: decision, Text: reply}
}

// extractEntities calls the extractor only when the classifier will read its
// output. Extractor failures degrade to no entities.
func (s *Service) extractEntities(ctx context.Context, text string) []entity.NamedEntity {
	if s.extractor == nil || !s.classifier.NeedsEntities(text) {
		return nil
	}

	ctx, span := tracing.GetTracer().Start(ctx, "chat.ExtractEntities")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.nerTimeout)
	defer cancel()

	start := time.Now()
	entities, err := s.extractor.Extract(ctx, text)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entity extraction failed")
		logging.FromContext(ctx).WarnContext(ctx, "entity extraction failed, continuing without entities",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		s.metrics.RecordExtraction("error", 0, duration)
		return nil
	}

	span.SetAttributes(attribute.Int("chat.entities", len(entities)))
	s.metrics.RecordExtraction("success", len(entities), duration)
	return entities
}

func (s *Service) answerNews(ctx context.Context, req entity.NewsRequest) string {
	provider := s.news.Name()
	mode := req.Mode().String()
	logger := logging.FromContext(ctx)

	if !s.news.Configured() {
		s.metrics.RecordNewsLookup(provider, mode, "not_configured", 0)
		return NotConfiguredMessage
	}

	ctx, span := tracing.GetTracer().Start(ctx, "chat.LookupNews")
	defer span.End()
	span.SetAttributes(
		attribute.String("news.provider", provider),
		attribute.String("news.mode", mode),
	)

	ctx, cancel := context.WithTimeout(ctx, s.newsTimeout)
	defer cancel()

	start := time.Now()
	articles, err := s.lookup(ctx, req)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "news lookup failed")
		logger.WarnContext(ctx, "news lookup failed",
			slog.String("provider", provider),
			slog.String("mode", mode),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		s.metrics.RecordNewsLookup(provider, mode, "error", duration)
		return s.formatter.Apology(err)
	}

	if len(articles) > s.maxArticles {
		articles = articles[:s.maxArticles]
	}
	span.SetAttributes(attribute.Int("news.articles", len(articles)))

	result := "success"
	if len(articles) == 0 {
		result = "empty"
	}
	logger.InfoContext(ctx, "news lookup completed",
		slog.String("provider", provider),
		slog.String("mode", mode),
		slog.Int("articles", len(articles)),
		slog.Duration("duration", duration))
	s.metrics.RecordNewsLookup(provider, mode, result, duration)

	return s.formatter.Articles(articles)
}

func (s *Service) lookup(ctx context.Context, req entity.NewsRequest) ([]entity.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	articles, err := s.news.Lookup(ctx, req, s.maxArticles)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", s.news.Name(), err)
	}
	return articles, nil
}
