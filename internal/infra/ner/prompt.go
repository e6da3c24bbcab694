package ner

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"newsbot/internal/domain/entity"
)

// systemPrompt asks for a JSON object so both providers can use JSON mode.
const systemPrompt = `You are a named entity recognizer for a news assistant.
Extract every organization, place and person mentioned in the user's message.

Respond ONLY with valid JSON in this exact format:
{"entities": [{"text": "<span exactly as written>", "label": "ORGANIZATION|PLACE|PERSON|OTHER"}]}

Rules:
- "text" must be copied verbatim from the message.
- Countries, cities and regions are PLACE.
- Companies, agencies, teams and institutions are ORGANIZATION.
- Do not invent entities. Return {"entities": []} when there are none.`

// ErrMalformedResponse is returned when the model output is not the expected JSON.
var ErrMalformedResponse = errors.New("malformed entity response")

type rawEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type rawResponse struct {
	Entities []rawEntity `json:"entities"`
}

// parseEntities decodes the model answer and orders the spans by their first
// occurrence in input. Each entity carries the text as the user wrote it.
// Spans that do not occur in input are discarded.
func parseEntities(content, input string) ([]entity.NamedEntity, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var items []rawEntity
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	} else {
		var resp rawResponse
		if err := json.Unmarshal([]byte(content), &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		items = resp.Entities
	}

	type positioned struct {
		entity.NamedEntity
		pos int
	}
	found := make([]positioned, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		span := strings.TrimSpace(it.Text)
		if span == "" {
			continue
		}
		start, end := indexFold(input, span)
		if start < 0 || seen[start] {
			continue
		}
		seen[start] = true
		found = append(found, positioned{
			NamedEntity: entity.NamedEntity{Text: input[start:end], Label: entity.ParseEntityLabel(it.Label)},
			pos:         start,
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]entity.NamedEntity, len(found))
	for i, f := range found {
		out[i] = f.NamedEntity
	}
	return out, nil
}

// indexFold returns the byte range of the first case-insensitive occurrence of
// sub in s, or -1, -1. Offsets always refer to s.
func indexFold(s, sub string) (int, int) {
	n := utf8.RuneCountInString(sub)
	for i := range s {
		end := i
		for k := 0; k < n && end < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
		}
		if strings.EqualFold(s[i:end], sub) {
			return i, end
		}
	}
	return -1, -1
}

// stripCodeFence removes the markdown fences models like to wrap JSON in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
