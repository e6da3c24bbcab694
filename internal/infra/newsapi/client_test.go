package newsapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbot/internal/domain/entity"
	"newsbot/internal/resilience/circuitbreaker"
	"newsbot/internal/resilience/retry"
)

const twoArticles = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": "reuters", "name": "Reuters"},
      "author": "Jane Doe",
      "title": "Markets rally on tech earnings",
      "description": "Stocks <b>rose</b> sharply &amp; broadly.",
      "url": "https://example.com/markets",
      "publishedAt": "2024-03-15T14:30:00Z"
    },
    {
      "source": {"id": null, "name": "The Verge"},
      "author": null,
      "title": "New phone announced",
      "description": null,
      "url": "https://example.com/phone",
      "publishedAt": "2024-03-14 09:00:00"
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, RetryAttempts: 1})
	return c, server
}

func TestClient_Lookup_Modes(t *testing.T) {
	tests := []struct {
		name      string
		req       entity.NewsRequest
		wantPath  string
		wantQuery map[string]string
		absent    []string
	}{
		{
			name:     "topic searches everything",
			req:      entity.NewsRequest{Topic: "Apple"},
			wantPath: "/v2/everything",
			wantQuery: map[string]string{
				"q": "Apple", "language": "en", "sortBy": "publishedAt", "pageSize": "5",
			},
			absent: []string{"country", "category"},
		},
		{
			name:     "category uses top headlines",
			req:      entity.NewsRequest{Category: entity.CategorySports},
			wantPath: "/v2/top-headlines",
			wantQuery: map[string]string{
				"category": "sports", "country": "us", "language": "en", "pageSize": "5",
			},
			absent: []string{"q"},
		},
		{
			name:     "empty request is top headlines",
			req:      entity.NewsRequest{},
			wantPath: "/v2/top-headlines",
			wantQuery: map[string]string{
				"country": "us", "language": "en", "pageSize": "5",
			},
			absent: []string{"q", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
				q := r.URL.Query()
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, q.Get(k), "query param %s", k)
				}
				for _, k := range tt.absent {
					assert.False(t, q.Has(k), "unexpected query param %s", k)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, twoArticles)
			})

			got, err := c.Lookup(context.Background(), tt.req, 5)
			require.NoError(t, err)
			assert.Len(t, got, 2)
		})
	}
}

func TestClient_Lookup_ParsesArticles(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, twoArticles)
	})

	got, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	require.NoError(t, err)

	want := []entity.Article{
		{
			Title:       "Markets rally on tech earnings",
			SourceName:  "Reuters",
			URL:         "https://example.com/markets",
			PublishedAt: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
			Description: "Stocks rose sharply & broadly.",
		},
		{
			Title:       "New phone announced",
			SourceName:  "The Verge",
			URL:         "https://example.com/phone",
			PublishedAt: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Lookup_TruncatesToLimit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("pageSize"))
		_, _ = io.WriteString(w, twoArticles)
	})

	got, err := c.Lookup(context.Background(), entity.NewsRequest{}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Markets rally on tech earnings", got[0].Title)
}

func TestClient_Lookup_DropsRemovedArticles(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok","totalResults":3,"articles":[
			{"source":{"name":""},"title":"[Removed]","url":"https://removed.com"},
			{"source":{"name":"Spam"},"title":"Bad link","url":"javascript:void(0)"},
			{"source":{"name":"BBC"},"title":"Kept","url":"https://example.com/kept","publishedAt":"garbage"}
		]}`)
	})

	got, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Title)
	assert.True(t, got[0].PublishedAt.IsZero())
}

func TestClient_Lookup_EmptyResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok","totalResults":0,"articles":[]}`)
	})

	got, err := c.Lookup(context.Background(), entity.NewsRequest{Topic: "zzzz"}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Lookup_APIError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid or incorrect."}`)
	})
	c.retryCfg = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
	assert.Contains(t, err.Error(), "Your API key is invalid")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Lookup_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
			return
		}
		_, _ = io.WriteString(w, twoArticles)
	})
	c.retryCfg = retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	got, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Lookup_StatusErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestClient_Lookup_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Lookup_NotConfigured(t *testing.T) {
	for _, key := range []string{"", "  ", PlaceholderKey} {
		c := NewClient(Config{APIKey: key, BaseURL: "http://127.0.0.1:0"})
		assert.False(t, c.Configured())

		_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestClient_Lookup_ContextTimeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Lookup(ctx, entity.NewsRequest{}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_Lookup_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 3; i++ {
		_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.CircuitState())

	_, err := c.Lookup(context.Background(), entity.NewsRequest{}, 5)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NameAndDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	assert.Equal(t, "newsapi", c.Name())
	assert.True(t, c.Configured())
	assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
	assert.Equal(t, "us", c.config.Country)
	assert.Equal(t, "en", c.config.Language)
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 429, Code: "rateLimited", Message: "slow down"}
	assert.Equal(t, "news api error rateLimited (HTTP 429): slow down", err.Error())
	assert.False(t, err.Retryable())
	assert.False(t, retry.IsRetryable(err))

	server := &APIError{StatusCode: 500, Code: "unexpectedError", Message: "oops"}
	assert.True(t, retry.IsRetryable(server))
}

func TestToArticles_DescriptionLimit(t *testing.T) {
	long := strings.Repeat("word ", 200)
	items := []apiArticle{{Title: "Long read", URL: "https://example.com/long", Description: long}}
	items[0].Source.Name = "Example"

	whole := toArticles(items, 0)
	require.Len(t, whole, 1)
	assert.Equal(t, strings.TrimSpace(long), whole[0].Description)

	capped := toArticles(items, 50)
	require.Len(t, capped, 1)
	assert.Equal(t, 50, len([]rune(capped[0].Description)))
	assert.True(t, strings.HasSuffix(capped[0].Description, "…"))
}
