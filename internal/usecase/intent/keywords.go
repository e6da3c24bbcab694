// Package intent classifies a single user utterance into an Intent.
// Classification is an ordered list of keyword rules evaluated against the
// lowercased input; the first rule that fires wins.
package intent

import "strings"

// KeywordSets holds the trigger words for every keyword driven rule.
// An empty set disables its rule.
type KeywordSets struct {
	News     []string `yaml:"news"`
	Time     []string `yaml:"time"`
	Date     []string `yaml:"date"`
	Greeting []string `yaml:"greeting"`
	Farewell []string `yaml:"farewell"`
	Thanks   []string `yaml:"thanks"`
}

// DefaultKeywords returns the built-in trigger words.
func DefaultKeywords() KeywordSets {
	return KeywordSets{
		News:     []string{"news", "headlines", "latest", "updates"},
		Time:     []string{"time", "clock"},
		Date:     []string{"date", "day", "today"},
		Greeting: []string{"hello", "hi", "hey"},
		Farewell: []string{"bye", "goodbye", "see you"},
		Thanks:   []string{"thanks", "thank you", "appreciate"},
	}
}

// normalized returns a copy with every keyword lowercased and trimmed.
// Blank keywords are dropped so they can never match everything.
func (k KeywordSets) normalized() KeywordSets {
	return KeywordSets{
		News:     normalizeList(k.News),
		Time:     normalizeList(k.Time),
		Date:     normalizeList(k.Date),
		Greeting: normalizeList(k.Greeting),
		Farewell: normalizeList(k.Farewell),
		Thanks:   normalizeList(k.Thanks),
	}
}

func normalizeList(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
