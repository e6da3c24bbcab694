package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbot/internal/config"
	"newsbot/internal/infra/ner"
)

// cleanEnv pins the variables run reads so the host environment cannot leak in.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEWS_PROVIDER", "NEWS_API_KEY", "NEWS_FORMAT", "NEWS_MAX_ARTICLES",
		"NER_PROVIDER", "MATCH_MODE", "CONVERSATION_FILE",
		"METRICS_ENABLED", "TRACING_ENABLED", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "newsbot dev\n", stdout.String())
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-bogus"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "bogus")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	cleanEnv(t)
	t.Setenv("NEWS_MAX_ARTICLES", "50")

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "NEWS_MAX_ARTICLES")
	assert.Empty(t, stdout.String())
}

func TestRun_MissingConversationFile(t *testing.T) {
	cleanEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "read conversation file")
}

func TestRun_SessionWithoutNewsKey(t *testing.T) {
	cleanEnv(t)
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("what's the latest news?\nwhat time is it\nquit\n"), &stdout, &stderr)

	assert.Equal(t, 0, code)
	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "Warning: NEWS_API_KEY is not set."))
	assert.Contains(t, out, "📰 News Chatbot: Hello! I'm your news assistant.")
	assert.Contains(t, out, "News Chatbot: News API is not configured. Please set the NEWS_API_KEY environment variable.\n")
	assert.Contains(t, out, "News Chatbot: The current time is ")
	assert.True(t, strings.HasSuffix(out, "News Chatbot: Goodbye! Stay informed!\n"))
}

func TestRun_ConversationOverrides(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "conversation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
keywords:
  greeting: [howdy]
responses:
  greeting: ["Howdy partner!"]
`), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", path}, strings.NewReader("howdy\n"), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "News Chatbot: Howdy partner!\n")
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.NERConfig
		wantDep string
		wantErr bool
	}{
		{name: "none", cfg: config.NERConfig{Provider: config.NERProviderNone}},
		{name: "claude", cfg: config.NERConfig{Provider: config.NERProviderClaude, AnthropicAPIKey: "k"}, wantDep: "claude-ner"},
		{name: "openai", cfg: config.NERConfig{Provider: config.NERProviderOpenAI, OpenAIAPIKey: "k"}, wantDep: "openai-ner"},
		{name: "unknown", cfg: config.NERConfig{Provider: "spacy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, dep, err := newExtractor(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, extractor)
			if tt.wantDep == "" {
				assert.IsType(t, ner.Noop{}, extractor)
				assert.Nil(t, dep)
				return
			}
			require.NotNil(t, dep)
			assert.Equal(t, tt.wantDep, dep.Name)
			assert.Equal(t, "closed", dep.State())
		})
	}
}

func TestNewNewsLookup(t *testing.T) {
	news, dep := newNewsLookup(config.NewsConfig{Provider: config.NewsProviderRSS})
	assert.Equal(t, "rss", news.Name())
	assert.True(t, news.Configured())
	assert.Equal(t, "rss", dep.Name)

	news, dep = newNewsLookup(config.NewsConfig{Provider: config.NewsProviderNewsAPI, APIKey: "your_news_api_key_here"})
	assert.Equal(t, "newsapi", news.Name())
	assert.False(t, news.Configured())
	assert.Equal(t, "closed", dep.State())
}

func TestBuildApp_Dependencies(t *testing.T) {
	cfg := &config.Config{
		News:          config.NewsConfig{Provider: "newsapi", APIKey: "k", MaxArticles: 5, Format: "plain"},
		NER:           config.NERConfig{Provider: "claude", AnthropicAPIKey: "k"},
		MatchMode:     "word",
		Observability: config.ObservabilityConfig{MetricsPort: 9090},
	}

	app, err := buildApp(cfg, discardLogger())
	require.NoError(t, err)
	assert.True(t, app.service.NewsConfigured())
	require.Len(t, app.dependencies, 2)
	assert.Equal(t, "newsapi", app.dependencies[0].Name)
	assert.Equal(t, "claude-ner", app.dependencies[1].Name)
}

func TestBuildApp_InvalidFormat(t *testing.T) {
	cfg := &config.Config{
		News:      config.NewsConfig{Provider: "newsapi", Format: "html"},
		NER:       config.NERConfig{Provider: "none"},
		MatchMode: "word",
	}

	_, err := buildApp(cfg, discardLogger())
	assert.Error(t, err)
}

