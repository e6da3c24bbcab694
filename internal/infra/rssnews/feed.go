// Package rssnews serves news lookups from the Google News RSS feeds. It needs
// no credential and is the fallback when no NewsAPI key is available.
package rssnews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"newsbot/internal/domain/entity"
	"newsbot/internal/observability/logging"
	"newsbot/internal/resilience/circuitbreaker"
	"newsbot/internal/resilience/ratelimit"
	"newsbot/internal/resilience/retry"
	"newsbot/internal/utils/text"
)

// DefaultBaseURL is the public Google News endpoint.
const DefaultBaseURL = "https://news.google.com"

const defaultSourceName = "Google News"

// Config contains configuration for the RSS news provider.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Country is the edition country (ISO 3166-1 alpha-2).
	Country string

	// Language is the edition language (ISO 639-1).
	Language string

	// DescriptionLimit caps descriptions in runes. Zero keeps them whole.
	DescriptionLimit int

	// RateLimit is the sustained request rate; zero disables pacing.
	RateLimit float64

	// Burst is the number of requests allowed at once.
	Burst int

	// RetryAttempts is the total number of attempts per lookup.
	RetryAttempts int

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Feed fetches articles from Google News RSS.
type Feed struct {
	config   Config
	client   *http.Client
	limiter  *ratelimit.Limiter
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
}

// NewFeed creates a Feed with defaults applied to cfg.
func NewFeed(cfg Config) *Feed {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Feed{
		config:   cfg,
		client:   client,
		limiter:  ratelimit.New(cfg.RateLimit, cfg.Burst),
		breaker:  circuitbreaker.New(circuitbreaker.NewsFeedConfig()),
		retryCfg: retry.NewsLookupConfig(cfg.RetryAttempts),
	}
}

// Configured is always true; the feeds are public.
func (f *Feed) Configured() bool {
	return true
}

// Name identifies the provider in logs and metrics.
func (f *Feed) Name() string {
	return "rss"
}

// CircuitState reports the breaker state for health checks.
func (f *Feed) CircuitState() string {
	return f.breaker.State().String()
}

// Lookup returns at most limit articles for req.
func (f *Feed) Lookup(ctx context.Context, req entity.NewsRequest, limit int) ([]entity.Article, error) {
	if limit < 1 {
		limit = 1
	}
	feedURL := f.feedURL(req)

	var articles []entity.Article
	err := retry.WithBackoff(ctx, f.retryCfg, func() error {
		res, err := circuitbreaker.Execute(f.breaker, func() ([]entity.Article, error) {
			return f.fetch(ctx, feedURL)
		})
		if err != nil {
			return err
		}
		articles = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// feedURL maps a request to the search, topic or top stories feed.
func (f *Feed) feedURL(req entity.NewsRequest) string {
	country := strings.ToUpper(f.config.Country)
	lang := strings.ToLower(f.config.Language)

	q := url.Values{}
	q.Set("hl", lang+"-"+country)
	q.Set("gl", country)
	q.Set("ceid", country+":"+lang)

	switch req.Mode() {
	case entity.ModeSearch:
		q.Set("q", strings.TrimSpace(req.Topic))
		return f.config.BaseURL + "/rss/search?" + q.Encode()
	case entity.ModeCategory:
		topic := strings.ToUpper(string(req.Category))
		return f.config.BaseURL + "/rss/headlines/section/topic/" + topic + "?" + q.Encode()
	default:
		return f.config.BaseURL + "/rss?" + q.Encode()
	}
}

// fetch performs one feed request without retry or circuit breaker.
func (f *Feed) fetch(ctx context.Context, feedURL string) ([]entity.Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fp := gofeed.NewParser()
	fp.UserAgent = "newsbot/1.0"
	fp.Client = f.client

	start := time.Now()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	logging.FromContext(ctx).Debug("news feed fetched",
		slog.String("feed", feed.Title),
		slog.Int("items", len(feed.Items)),
		slog.Duration("duration", time.Since(start)))

	articles := make([]entity.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || strings.TrimSpace(it.Title) == "" || entity.ValidateArticleURL(it.Link) != nil {
			continue
		}
		title, source := splitSource(it.Title)
		articles = append(articles, entity.Article{
			Title:       title,
			SourceName:  source,
			URL:         it.Link,
			PublishedAt: publishedAt(it),
			Description: description(it.Description, title, source, f.config.DescriptionLimit),
		})
	}
	return articles, nil
}

// splitSource separates the publisher Google News appends to each title,
// as in "Markets rally - Reuters".
func splitSource(title string) (string, string) {
	title = strings.TrimSpace(title)
	i := strings.LastIndex(title, " - ")
	if i <= 0 || i+3 >= len(title) {
		return title, defaultSourceName
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

func publishedAt(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed.UTC()
	}
	if it.UpdatedParsed != nil {
		return it.UpdatedParsed.UTC()
	}
	if it.Published == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(it.Published, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// description drops Google News descriptions that only repeat the title
// and the source.
func description(raw, title, source string, limit int) string {
	plain := text.FromHTML(raw)
	if plain == "" {
		return ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(plain, title))
	if rest == "" || rest == source {
		return ""
	}
	return text.Limit(plain, limit)
}
