// Package turnid provides utilities for tagging each conversational turn with a unique ID.
// The ID travels in the context so that every log line of a turn can be correlated.
package turnid

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// TurnIDKey is the context key for storing turn IDs.
const TurnIDKey contextKey = "turn_id"

// New generates a fresh turn ID (UUID v4).
func New() string {
	return uuid.New().String()
}

// FromContext retrieves the turn ID from the context.
// Returns an empty string if no turn ID is found.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(TurnIDKey).(string); ok {
		return id
	}
	return ""
}

// WithTurnID adds a turn ID to the context.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TurnIDKey, id)
}
