// Package newsapi is a client for the NewsAPI.org v2 REST API. It implements
// the chat news lookup port over the /v2/everything and /v2/top-headlines
// endpoints.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"newsbot/internal/domain/entity"
	"newsbot/internal/observability/logging"
	"newsbot/internal/resilience/circuitbreaker"
	"newsbot/internal/resilience/ratelimit"
	"newsbot/internal/resilience/retry"
	"newsbot/internal/utils/text"
)

const (
	// DefaultBaseURL is the public NewsAPI endpoint.
	DefaultBaseURL = "https://newsapi.org"

	// PlaceholderKey is the value shipped in sample env files.
	PlaceholderKey = "your_news_api_key_here"

	maxPageSize     = 100
	maxResponseSize = 4 << 20
)

// Config contains configuration for the NewsAPI client.
type Config struct {
	// APIKey is sent in the X-Api-Key header. Empty or PlaceholderKey
	// leaves the client unconfigured.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Country filters top headlines (ISO 3166-1 alpha-2).
	Country string

	// Language scopes every request (ISO 639-1).
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

// Client fetches articles from NewsAPI.org.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

// NewClient creates a NewsAPI client with defaults applied to cfg.
func NewClient(cfg Config) *Client {
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
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    ratelimit.New(cfg.RateLimit, cfg.Burst),
		breaker:    circuitbreaker.New(circuitbreaker.NewsAPIConfig()),
		retryCfg:   retry.NewsLookupConfig(cfg.RetryAttempts),
	}
}

// IsPlaceholderKey reports whether key is empty or the sample placeholder.
func IsPlaceholderKey(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || key == PlaceholderKey
}

// Configured reports whether a real API key is present.
func (c *Client) Configured() bool {
	return !IsPlaceholderKey(c.config.APIKey)
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return "newsapi"
}

// CircuitState reports the breaker state for health checks.
func (c *Client) CircuitState() string {
	return c.breaker.State().String()
}

// Lookup returns at most limit articles for req. A topic searches all
// articles, a category selects top headlines in that category, and an empty
// request returns the country's top headlines.
func (c *Client) Lookup(ctx context.Context, req entity.NewsRequest, limit int) ([]entity.Article, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if limit < 1 {
		limit = 1
	}
	endpoint := c.endpoint(req, limit)

	var articles []entity.Article
	err := retry.WithBackoff(ctx, c.retryCfg, func() error {
		res, err := circuitbreaker.Execute(c.breaker, func() ([]entity.Article, error) {
			return c.fetch(ctx, endpoint)
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

func (c *Client) endpoint(req entity.NewsRequest, limit int) string {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(min(limit, maxPageSize)))
	q.Set("language", c.config.Language)

	switch req.Mode() {
	case entity.ModeSearch:
		q.Set("q", strings.TrimSpace(req.Topic))
		q.Set("sortBy", "publishedAt")
		return c.config.BaseURL + "/v2/everything?" + q.Encode()
	case entity.ModeCategory:
		q.Set("country", c.config.Country)
		q.Set("category", string(req.Category))
	default:
		q.Set("country", c.config.Country)
	}
	return c.config.BaseURL + "/v2/top-headlines?" + q.Encode()
}

type articlesResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// fetch performs one request without retry or circuit breaker.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]entity.Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "newsbot/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	logging.FromContext(ctx).Debug("news api response",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(body)))

	var parsed articlesResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK || parsed.Status == "error" {
		if decodeErr == nil && parsed.Message != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: parsed.Code, Message: parsed.Message}
		}
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrMalformedResponse, parsed.Status)
	}

	return toArticles(parsed.Articles, c.config.DescriptionLimit), nil
}

// toArticles converts API articles, dropping entries NewsAPI marks as
// removed and entries without a usable link.
func toArticles(items []apiArticle, descriptionLimit int) []entity.Article {
	articles := make([]entity.Article, 0, len(items))
	for _, it := range items {
		if it.Title == "" || it.Title == "[Removed]" || entity.ValidateArticleURL(it.URL) != nil {
			continue
		}
		articles = append(articles, entity.Article{
			Title:       strings.TrimSpace(it.Title),
			SourceName:  strings.TrimSpace(it.Source.Name),
			URL:         it.URL,
			PublishedAt: parsePublishedAt(it.PublishedAt),
			Description: text.Limit(text.FromHTML(it.Description), descriptionLimit),
		})
	}
	return articles
}

// parsePublishedAt accepts RFC 3339 and the looser layouts some sources
// leak through. Unparseable values yield the zero time.
func parsePublishedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

