package entity

import "fmt"

// Intent is the classified purpose of a single user utterance.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentGreeting
	IntentFarewell
	IntentThanks
	IntentTimeQuery
	IntentDateQuery
	IntentNewsQuery
)

var intentNames = map[Intent]string{
	IntentUnrecognized: "unrecognized",
	IntentGreeting:     "greeting",
	IntentFarewell:     "farewell",
	IntentThanks:       "thanks",
	IntentTimeQuery:    "time",
	IntentDateQuery:    "date",
	IntentNewsQuery:    "news",
}

// String returns the stable lowercase name of the intent.
func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// Category is one of the fixed topical tags a news request can be scoped to.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

// Categories lists every category in the order they are matched against input.
func Categories() []Category {
	return []Category{
		CategoryBusiness,
		CategoryEntertainment,
		CategoryHealth,
		CategoryScience,
		CategorySports,
		CategoryTechnology,
	}
}

var categoryDisplayNames = map[Category]string{
	CategoryBusiness:      "Business news",
	CategoryEntertainment: "Entertainment news",
	CategoryHealth:        "Health news",
	CategoryScience:       "Science news",
	CategorySports:        "Sports news",
	CategoryTechnology:    "Technology news",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// DisplayName returns the human readable label, e.g. "Business news".
func (c Category) DisplayName() string {
	return categoryDisplayNames[c]
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", s)}
	}
	return c, nil
}
