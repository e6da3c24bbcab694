package entity

import "strings"

// EntityLabel is the semantic category attached to an extracted span.
type EntityLabel string

const (
	LabelOrganization EntityLabel = "ORGANIZATION"
	LabelPlace        EntityLabel = "PLACE"
	LabelPerson       EntityLabel = "PERSON"
	LabelOther        EntityLabel = "OTHER"
)

// ParseEntityLabel normalizes the label names extractors commonly emit.
// Unknown labels map to LabelOther.
func ParseEntityLabel(s string) EntityLabel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ORGANIZATION", "ORGANISATION", "ORG", "COMPANY":
		return LabelOrganization
	case "PLACE", "LOCATION", "LOC", "GPE", "COUNTRY", "CITY":
		return LabelPlace
	case "PERSON", "PER", "PEOPLE":
		return LabelPerson
	default:
		return LabelOther
	}
}

// NamedEntity is a span of the input text tagged by the entity extractor.
type NamedEntity struct {
	Text  string
	Label EntityLabel
}

// IsTopicCandidate reports whether the entity may become a news search topic.
func (e NamedEntity) IsTopicCandidate() bool {
	if strings.TrimSpace(e.Text) == "" {
		return false
	}
	switch e.Label {
	case LabelOrganization, LabelPlace, LabelPerson:
		return true
	default:
		return false
	}
}
