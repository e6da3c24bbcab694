package newsapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured is returned by Lookup when no usable API key is set.
	ErrNotConfigured = errors.New("news api key not configured")

	// ErrMalformedResponse is returned when the body is not the documented JSON.
	ErrMalformedResponse = errors.New("malformed news api response")
)

// APIError is the error body NewsAPI returns with status "error".
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("news api error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("news api error %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// Retryable reports whether another attempt may succeed. Quota errors are
// final for the current window.
func (e *APIError) Retryable() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests, e.Code == "rateLimited":
		return false
	case e.StatusCode >= 500:
		return true
	}
	return false
}
