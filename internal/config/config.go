// Package config loads the chatbot configuration from environment variables
// and the optional conversation YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by NEWS_PROVIDER and NER_PROVIDER.
const (
	NewsProviderNewsAPI = "newsapi"
	NewsProviderRSS     = "rss"

	NERProviderNone   = "none"
	NERProviderClaude = "claude"
	NERProviderOpenAI = "openai"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	News NewsConfig
	NER  NERConfig

	// MatchMode selects keyword matching: "word" or "substring".
	MatchMode string

	// ConversationFile is an optional YAML file overriding keywords and replies.
	ConversationFile string

	Observability ObservabilityConfig
}

// NewsConfig holds news provider settings.
type NewsConfig struct {
	// Provider is "newsapi" or "rss". Default: newsapi
	Provider string
	// APIKey is the NewsAPI credential. Empty or the placeholder disables news.
	APIKey string
	// BaseURL of the NewsAPI service. Default: https://newsapi.org
	BaseURL string
	// RSSBaseURL of the Google News service. Default: https://news.google.com
	RSSBaseURL string
	// Country for headlines. Default: us
	Country string
	// Language of every NewsAPI request. Default: en
	Language string
	// MaxArticles shown per reply, 1-20. Default: 5
	MaxArticles int
	// Timeout per lookup. Default: 10s
	Timeout time.Duration
	// RateLimit in requests per second. Default: 1.0
	RateLimit float64
	// RateBurst is the token bucket size. Default: 5
	RateBurst int
	// RetryAttempts is the total attempts per lookup. Default: 1
	RetryAttempts int
	// Format is "emoji" or "plain". Default: emoji
	Format string
	// DescriptionLimit caps article descriptions in runes. Default: 0 (no cap)
	DescriptionLimit int
}

// NERConfig holds entity extractor settings.
type NERConfig struct {
	// Provider is "claude", "openai" or "none". Default: none
	Provider string
	// AnthropicAPIKey is required for the claude provider.
	AnthropicAPIKey string
	// OpenAIAPIKey is required for the openai provider.
	OpenAIAPIKey string
	// Model overrides the provider default.
	Model string
	// BaseURL overrides the provider endpoint.
	BaseURL string
	// Timeout per extraction. Default: 15s
	Timeout time.Duration
}

// APIKey returns the credential for the selected provider.
func (c NERConfig) APIKey() string {
	switch c.Provider {
	case NERProviderClaude:
		return c.AnthropicAPIKey
	case NERProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return ""
	}
}

// ObservabilityConfig holds logging, metrics and tracing settings.
type ObservabilityConfig struct {
	// MetricsEnabled starts the Prometheus server. Default: false
	MetricsEnabled bool
	// MetricsPort for the Prometheus server. Default: 9090
	MetricsPort int
	// TracingEnabled logs OpenTelemetry spans at debug. Default: false
	TracingEnabled bool
	// LogLevel is debug, info, warn or error. Default: warn
	LogLevel string
	// LogFormat is json or text. Default: json
	LogFormat string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(nil)
}

// load reads configuration through lookup; nil means os.LookupEnv.
func load(lookup func(string) (string, bool)) (*Config, error) {
	env := newEnvReader(lookup)

	cfg := &Config{
		News: NewsConfig{
			Provider:         strings.ToLower(env.String("NEWS_PROVIDER", NewsProviderNewsAPI)),
			APIKey:           env.String("NEWS_API_KEY", ""),
			BaseURL:          env.String("NEWS_API_BASE_URL", "https://newsapi.org"),
			RSSBaseURL:       env.String("NEWS_RSS_BASE_URL", "https://news.google.com"),
			Country:          strings.ToLower(env.String("NEWS_COUNTRY", "us")),
			Language:         strings.ToLower(env.String("NEWS_LANGUAGE", "en")),
			MaxArticles:      env.Int("NEWS_MAX_ARTICLES", 5),
			Timeout:          env.Duration("NEWS_TIMEOUT", 10*time.Second),
			RateLimit:        env.Float("NEWS_RATE_LIMIT", 1.0),
			RateBurst:        env.Int("NEWS_RATE_BURST", 5),
			RetryAttempts:    env.Int("NEWS_RETRY_ATTEMPTS", 1),
			Format:           strings.ToLower(env.String("NEWS_FORMAT", "emoji")),
			DescriptionLimit: env.Int("NEWS_DESCRIPTION_LIMIT", 0),
		},
		NER: NERConfig{
			Provider:        strings.ToLower(env.String("NER_PROVIDER", NERProviderNone)),
			AnthropicAPIKey: env.String("ANTHROPIC_API_KEY", ""),
			OpenAIAPIKey:    env.String("OPENAI_API_KEY", ""),
			Model:           env.String("NER_MODEL", ""),
			BaseURL:         env.String("NER_BASE_URL", ""),
			Timeout:         env.Duration("NER_TIMEOUT", 15*time.Second),
		},
		MatchMode:        strings.ToLower(env.String("MATCH_MODE", "word")),
		ConversationFile: env.String("CONVERSATION_FILE", ""),
		Observability: ObservabilityConfig{
			MetricsEnabled: env.Bool("METRICS_ENABLED", false),
			MetricsPort:    env.Int("METRICS_PORT", 9090),
			TracingEnabled: env.Bool("TRACING_ENABLED", false),
			LogLevel:       strings.ToLower(env.String("LOG_LEVEL", "warn")),
			LogFormat:      strings.ToLower(env.String("LOG_FORMAT", "json")),
		},
	}

	if err := env.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(oneOf(c.News.Provider, NewsProviderNewsAPI, NewsProviderRSS),
		"NEWS_PROVIDER must be newsapi or rss, got %q", c.News.Provider)
	check(c.News.MaxArticles >= 1 && c.News.MaxArticles <= 20,
		"NEWS_MAX_ARTICLES must be between 1 and 20, got %d", c.News.MaxArticles)
	check(c.News.Timeout > 0, "NEWS_TIMEOUT must be positive")
	check(c.News.RateLimit >= 0, "NEWS_RATE_LIMIT must not be negative")
	check(c.News.RateBurst >= 1, "NEWS_RATE_BURST must be at least 1")
	check(c.News.RetryAttempts >= 1 && c.News.RetryAttempts <= 5,
		"NEWS_RETRY_ATTEMPTS must be between 1 and 5, got %d", c.News.RetryAttempts)
	check(c.News.DescriptionLimit >= 0,
		"NEWS_DESCRIPTION_LIMIT must not be negative, got %d", c.News.DescriptionLimit)
	check(oneOf(c.News.Format, "emoji", "plain"),
		"NEWS_FORMAT must be emoji or plain, got %q", c.News.Format)
	check(len(c.News.Country) == 2, "NEWS_COUNTRY must be a two letter code, got %q", c.News.Country)
	check(len(c.News.Language) == 2, "NEWS_LANGUAGE must be a two letter code, got %q", c.News.Language)

	check(oneOf(c.NER.Provider, NERProviderNone, NERProviderClaude, NERProviderOpenAI),
		"NER_PROVIDER must be none, claude or openai, got %q", c.NER.Provider)
	check(c.NER.Timeout > 0, "NER_TIMEOUT must be positive")
	if c.NER.Provider == NERProviderClaude {
		check(c.NER.AnthropicAPIKey != "", "ANTHROPIC_API_KEY is required when NER_PROVIDER=claude")
	}
	if c.NER.Provider == NERProviderOpenAI {
		check(c.NER.OpenAIAPIKey != "", "OPENAI_API_KEY is required when NER_PROVIDER=openai")
	}

	check(oneOf(c.MatchMode, "word", "substring"),
		"MATCH_MODE must be word or substring, got %q", c.MatchMode)

	check(c.Observability.MetricsPort > 0 && c.Observability.MetricsPort < 65536,
		"METRICS_PORT must be between 1 and 65535, got %d", c.Observability.MetricsPort)
	check(oneOf(c.Observability.LogLevel, "debug", "info", "warn", "warning", "error"),
		"LOG_LEVEL must be debug, info, warn or error, got %q", c.Observability.LogLevel)
	check(oneOf(c.Observability.LogFormat, "json", "text"),
		"LOG_FORMAT must be json or text, got %q", c.Observability.LogFormat)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
