package main

import (
	"fmt"
	"log/slog"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/infra/newsapi"
	"newsbot/internal/infra/ner"
	"newsbot/internal/infra/rssnews"
	"newsbot/internal/observability/metrics"
	"newsbot/internal/usecase/chat"
	"newsbot/internal/usecase/intent"
)

// application holds the wired chat service and the collaborators the
// health endpoint reports on.
type application struct {
	service      *chat.Service
	dependencies []dependency
}

// dependency is an outbound collaborator guarded by a circuit breaker.
type dependency struct {
	Name  string
	State func() string
}

// buildApp wires configuration into the chat service.
func buildApp(cfg *config.Config, logger *slog.Logger) (*application, error) {
	conv, err := config.LoadConversation(cfg.ConversationFile)
	if err != nil {
		return nil, err
	}

	mode, err := intent.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, err
	}
	classifier := intent.NewClassifier(conv.Keywords, intent.NewMatcher(mode))

	style, err := chat.ParseArticleStyle(cfg.News.Format)
	if err != nil {
		return nil, err
	}
	formatter, err := chat.NewFormatter(chat.FormatterConfig{
		Pools:  conv.Responses,
		Picker: chat.RandomPicker,
		Clock:  time.Now,
		Style:  style,
	})
	if err != nil {
		return nil, fmt.Errorf("formatter: %w", err)
	}

	app := &application{}

	news, newsDep := newNewsLookup(cfg.News)
	app.dependencies = append(app.dependencies, newsDep)

	extractor, extractorDep, err := newExtractor(cfg.NER)
	if err != nil {
		return nil, err
	}
	if extractorDep != nil {
		app.dependencies = append(app.dependencies, *extractorDep)
	}

	app.service, err = chat.NewService(chat.ServiceConfig{
		Classifier:  classifier,
		Extractor:   extractor,
		News:        news,
		Formatter:   formatter,
		Metrics:     metrics.NewChatRecorder(),
		MaxArticles: cfg.News.MaxArticles,
		NewsTimeout: cfg.News.Timeout,
		NERTimeout:  cfg.NER.Timeout,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("application wired",
		slog.String("news_provider", news.Name()),
		slog.Bool("news_configured", news.Configured()),
		slog.Int("keyword_news", len(conv.Keywords.News)))
	return app, nil
}

// newNewsLookup selects the news provider.
func newNewsLookup(cfg config.NewsConfig) (chat.NewsLookup, dependency) {
	if cfg.Provider == config.NewsProviderRSS {
		feed := rssnews.NewFeed(rssnews.Config{
			BaseURL:          cfg.RSSBaseURL,
			Country:          cfg.Country,
			Language:         cfg.Language,
			RateLimit:        cfg.RateLimit,
			Burst:            cfg.RateBurst,
			RetryAttempts:    cfg.RetryAttempts,
			DescriptionLimit: cfg.DescriptionLimit,
		})
		return feed, dependency{Name: feed.Name(), State: feed.CircuitState}
	}

	client := newsapi.NewClient(newsapi.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Country:          cfg.Country,
		Language:         cfg.Language,
		RateLimit:        cfg.RateLimit,
		Burst:            cfg.RateBurst,
		RetryAttempts:    cfg.RetryAttempts,
		DescriptionLimit: cfg.DescriptionLimit,
	})
	return client, dependency{Name: client.Name(), State: client.CircuitState}
}

// newExtractor selects the entity extractor. Only the LLM backed extractors
// are reported as dependencies.
func newExtractor(cfg config.NERConfig) (chat.EntityExtractor, *dependency, error) {
	nerCfg := ner.Config{
		APIKey:  cfg.APIKey(),
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	}

	switch cfg.Provider {
	case config.NERProviderClaude:
		c := ner.NewClaude(nerCfg)
		return c, &dependency{Name: "claude-ner", State: c.CircuitState}, nil
	case config.NERProviderOpenAI:
		o := ner.NewOpenAI(nerCfg)
		return o, &dependency{Name: "openai-ner", State: o.CircuitState}, nil
	case config.NERProviderNone, "":
		return ner.NewNoop(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown NER provider %q", cfg.Provider)
	}
}
