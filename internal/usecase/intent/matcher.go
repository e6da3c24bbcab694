package intent

import (
	"fmt"
	"strings"
	"unicode"
)

// MatchMode selects how keywords are located inside the input.
type MatchMode string

const (
	// MatchWord matches keywords on word boundaries, so "date" does not match "update".
	MatchWord MatchMode = "word"
	// MatchSubstring matches keywords anywhere in the text, including inside other words.
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchWord:
		return MatchWord, nil
	case MatchSubstring:
		return MatchSubstring, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want %q or %q)", s, MatchWord, MatchSubstring)
	}
}

// Matcher reports whether a lowercased keyword occurs in a lowercased text.
type Matcher interface {
	Contains(text, keyword string) bool
}

// NewMatcher returns the Matcher for the given mode.
func NewMatcher(mode MatchMode) Matcher {
	if mode == MatchSubstring {
		return SubstringMatcher{}
	}
	return WordMatcher{}
}

// SubstringMatcher is a plain strings.Contains test.
type SubstringMatcher struct{}

// Contains implements Matcher.
func (SubstringMatcher) Contains(text, keyword string) bool {
	return keyword != "" && strings.Contains(text, keyword)
}

// WordMatcher matches whole words. A multi-word keyword such as "see you"
// matches when its words appear consecutively in the text.
type WordMatcher struct{}

// Contains implements Matcher.
func (WordMatcher) Contains(text, keyword string) bool {
	needle := words(keyword)
	if len(needle) == 0 {
		return false
	}
	haystack := words(text)
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if equalWords(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

// words splits s on every rune that is not a letter or digit.
// "today's" yields ["today", "s"].
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
