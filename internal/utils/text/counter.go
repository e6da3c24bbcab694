// Package text holds small string helpers shared by the news providers and
// the entity extractors.
package text

// CountRunes counts Unicode characters rather than bytes, so limits applied
// to user input and article descriptions never split a multi-byte character.
//
// Examples:
//
//	CountRunes("hello")    // 5
//	CountRunes("héllo")    // 5
//	CountRunes("news📰")   // 5
func CountRunes(text string) int {
	return len([]rune(text))
}

// Limit is Truncate for optional caps: a non-positive limit returns text
// unchanged.
func Limit(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	return Truncate(text, limit)
}

// Truncate returns text cut to at most limit runes. When it cuts, the last
// rune is replaced by an ellipsis. A non-positive limit returns "".
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
