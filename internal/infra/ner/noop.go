package ner

import (
	"context"

	"newsbot/internal/domain/entity"
)

// Noop is the extractor used when no provider is configured. It never finds
// anything, so news requests fall back to categories and top headlines.
type Noop struct{}

// NewNoop creates a Noop extractor.
func NewNoop() Noop {
	return Noop{}
}

// Extract always returns no entities.
func (Noop) Extract(context.Context, string) ([]entity.NamedEntity, error) {
	return nil, nil
}
