// Package chat implements one conversational turn: entity extraction,
// intent classification, an optional news lookup and rendering of the reply.
package chat

import (
	"context"

	"newsbot/internal/domain/entity"
)

// EntityExtractor tags spans of the input text with semantic labels.
// Implementations must return entities in the order they appear in text.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]entity.NamedEntity, error)
}

// NewsLookup fetches articles from a news provider.
type NewsLookup interface {
	// Lookup returns at most limit articles for the request.
	Lookup(ctx context.Context, req entity.NewsRequest, limit int) ([]entity.Article, error)

	// Configured reports whether the provider has the credentials it needs.
	// Lookup must not be called when it returns false.
	Configured() bool

	// Name identifies the provider in logs and metrics.
	Name() string
}
