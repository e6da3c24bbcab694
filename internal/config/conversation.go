package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"newsbot/internal/usecase/chat"
	"newsbot/internal/usecase/intent"
)

// Conversation holds the keyword sets and reply pools used by the chatbot.
type Conversation struct {
	Keywords  intent.KeywordSets `yaml:"keywords"`
	Responses chat.ResponsePools `yaml:"responses"`
}

// DefaultConversation returns the built-in keywords and replies.
func DefaultConversation() Conversation {
	return Conversation{
		Keywords:  intent.DefaultKeywords(),
		Responses: chat.DefaultResponsePools(),
	}
}

// LoadConversation reads a conversation YAML file and merges it over the
// defaults. An empty path returns the defaults. Keys that are omitted keep
// their default value; an explicitly empty reply pool is rejected while an
// explicitly empty keyword list disables that rule.
func LoadConversation(path string) (Conversation, error) {
	conv := DefaultConversation()
	if path == "" {
		return conv, nil
	}

	// #nosec G304 -- path comes from a command-line flag or the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversation{}, fmt.Errorf("read conversation file: %w", err)
	}

	var override Conversation
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return Conversation{}, fmt.Errorf("parse conversation file %s: %w", path, err)
	}

	mergeList(&conv.Keywords.News, override.Keywords.News)
	mergeList(&conv.Keywords.Time, override.Keywords.Time)
	mergeList(&conv.Keywords.Date, override.Keywords.Date)
	mergeList(&conv.Keywords.Greeting, override.Keywords.Greeting)
	mergeList(&conv.Keywords.Farewell, override.Keywords.Farewell)
	mergeList(&conv.Keywords.Thanks, override.Keywords.Thanks)

	mergeList(&conv.Responses.Greeting, override.Responses.Greeting)
	mergeList(&conv.Responses.Farewell, override.Responses.Farewell)
	mergeList(&conv.Responses.Thanks, override.Responses.Thanks)
	mergeList(&conv.Responses.Default, override.Responses.Default)

	if err := conv.Responses.Validate(); err != nil {
		return Conversation{}, fmt.Errorf("%w: conversation file %s: responses.%w", ErrInvalidConfig, path, err)
	}
	return conv, nil
}

// mergeList replaces dst when the file set the key, even to an empty list.
func mergeList(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}
