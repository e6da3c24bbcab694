// Package entity defines the core domain types of the news assistant.
// It contains the intents a user utterance can resolve to, the named entities
// the extractor reports, the news request shape and the Article record returned
// by news providers.
package entity

import (
	"strings"
	"time"
)

// Article represents a single news article returned by a news provider.
// Every field except Description is expected to be present; PublishedAt is the
// zero time when the provider did not report a parseable timestamp.
type Article struct {
	Title       string
	SourceName  string
	URL         string
	PublishedAt time.Time
	Description string
}

// HasDescription reports whether the article carries a non-blank description.
func (a Article) HasDescription() bool {
	return strings.TrimSpace(a.Description) != ""
}

// RequestMode identifies which news endpoint a NewsRequest resolves to.
type RequestMode int

const (
	// ModeTopHeadlines asks for unfiltered top headlines.
	ModeTopHeadlines RequestMode = iota
	// ModeCategory asks for top headlines in a single category.
	ModeCategory
	// ModeSearch asks for a free-text search across all articles.
	ModeSearch
)

// String returns the mode name used in logs and metric labels.
func (m RequestMode) String() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeSearch:
		return "search"
	default:
		return "top_headlines"
	}
}

// NewsRequest describes what the user asked for.
// Topic and Category are both optional; when both are empty the request
// degenerates to top headlines.
type NewsRequest struct {
	Category Category
	Topic    string
}

// Mode resolves the endpoint the request should be served from.
// A topic selects search, otherwise a category selects category headlines.
func (r NewsRequest) Mode() RequestMode {
	if strings.TrimSpace(r.Topic) != "" {
		return ModeSearch
	}
	if r.Category != "" {
		return ModeCategory
	}
	return ModeTopHeadlines
}

// Validate checks the request before it is handed to a provider.
func (r NewsRequest) Validate() error {
	if r.Category != "" && !r.Category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category " + string(r.Category)}
	}
	if len(r.Topic) > maxTopicLength {
		return &ValidationError{Field: "topic", Message: "topic is too long"}
	}
	return nil
}

// maxTopicLength bounds the search term sent upstream.
const maxTopicLength = 500
