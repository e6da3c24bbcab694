package chat

import "errors"

// Sentinel errors for chat use case operations.
var (
	// ErrEmptyPool indicates that a response template pool has no candidates.
	ErrEmptyPool = errors.New("response pool is empty")

	// ErrUnknownArticleStyle indicates an unsupported article rendering style.
	ErrUnknownArticleStyle = errors.New("unknown article style")
)
