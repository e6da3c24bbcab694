package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
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

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func claudeMessage(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         DefaultClaudeModel,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"content":       []map[string]any{{"type": "text", "text": text}},
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
	return string(body)
}

func openAICompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   DefaultOpenAIModel,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

func TestClaude_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "latest news about Apple")
		assert.Contains(t, string(body), "named entity recognizer")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeMessage(`{"entities":[{"text":"Apple","label":"ORGANIZATION"}]}`))
	}))
	defer server.Close()

	c := NewClaude(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := c.Extract(context.Background(), "latest news about Apple")

	require.NoError(t, err)
	want := []entity.NamedEntity{{Text: "Apple", Label: entity.LabelOrganization}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "closed", c.CircuitState())
}

func TestClaude_Extract_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
			return
		}
		_, _ = io.WriteString(w, claudeMessage(`{"entities":[]}`))
	}))
	defer server.Close()

	c := NewClaude(Config{APIKey: "k", BaseURL: server.URL})
	c.retryCfg = fastRetry()

	got, err := c.Extract(context.Background(), "news")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClaude_Extract_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	c := NewClaude(Config{APIKey: "bad", BaseURL: server.URL})
	c.retryCfg = fastRetry()

	_, err := c.Extract(context.Background(), "news about Apple")
	require.Error(t, err)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClaude_Extract_TruncatesInput(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = req.Messages[0].Content[0].Text
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeMessage(`{"entities":[]}`))
	}))
	defer server.Close()

	c := NewClaude(Config{APIKey: "k", BaseURL: server.URL, MaxInputRunes: 10})
	_, err := c.Extract(context.Background(), "news about the whole wide world")

	require.NoError(t, err)
	assert.Equal(t, "news abou…", received)
}

func TestOpenAI_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOpenAIModel, req["model"])
		assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openAICompletion(`{"entities":[{"text":"Tokyo","label":"PLACE"},{"text":"Sony","label":"ORGANIZATION"}]}`))
	}))
	defer server.Close()

	o := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := o.Extract(context.Background(), "Sony headlines from Tokyo")

	require.NoError(t, err)
	want := []entity.NamedEntity{
		{Text: "Sony", Label: entity.LabelOrganization},
		{Text: "Tokyo", Label: entity.LabelPlace},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAI_Extract_CustomModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.1-8b-instant", req["model"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openAICompletion(`{"entities":[]}`))
	}))
	defer server.Close()

	o := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL, Model: "llama-3.1-8b-instant"})
	_, err := o.Extract(context.Background(), "news")
	require.NoError(t, err)
}

func TestOpenAI_Extract_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCalls  int32
		wantStatus int
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantCalls:  1,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`,
			wantCalls:  2,
			wantStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			o := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL})
			o.retryCfg = fastRetry()

			_, err := o.Extract(context.Background(), "news")
			require.Error(t, err)
			var httpErr *retry.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestOpenAI_Extract_MalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openAICompletion("Apple is a company"))
	}))
	defer server.Close()

	o := NewOpenAI(Config{APIKey: "k", BaseURL: server.URL})
	_, err := o.Extract(context.Background(), "Apple news")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

type failingCompleter struct{ calls int }

func (f *failingCompleter) complete(context.Context, string) (string, error) {
	f.calls++
	return "", fmt.Errorf("backend: %w", &retry.HTTPError{StatusCode: 503})
}

func TestExtractor_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	backend := &failingCompleter{}
	e := newExtractor("test-ner-breaker", backend, 0)
	e.retryCfg = retry.Config{MaxAttempts: 1}

	for i := 0; i < 3; i++ {
		_, err := e.extract(context.Background(), "news")
		require.Error(t, err)
	}
	assert.Equal(t, 3, backend.calls)

	_, err := e.extract(context.Background(), "news")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, 3, backend.calls)
	assert.Equal(t, "open", e.CircuitState())
}

func TestNoop_Extract(t *testing.T) {
	got, err := NewNoop().Extract(context.Background(), "news about Apple")
	require.NoError(t, err)
	assert.Empty(t, got)
}
