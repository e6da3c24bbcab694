package intent

import (
	"strings"

	"newsbot/internal/domain/entity"
)

// Decision is the outcome of classifying one utterance.
// Request is only meaningful when Intent is IntentNewsQuery.
type Decision struct {
	Intent  entity.Intent
	Request entity.NewsRequest
	// Keyword is the trigger that fired the rule, empty for IntentUnrecognized.
	Keyword string
}

// rule is one (predicate, constructor) pair of the decision procedure.
type rule struct {
	name  string
	apply func(text string, entities []entity.NamedEntity) (Decision, bool)
}

// Classifier maps normalized input text plus extracted entities to a Decision.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	keywords KeywordSets
	matcher  Matcher
	rules    []rule
}

// NewClassifier builds a Classifier from keyword sets and a matching strategy.
// A nil matcher defaults to word-boundary matching.
func NewClassifier(keywords KeywordSets, matcher Matcher) *Classifier {
	if matcher == nil {
		matcher = WordMatcher{}
	}
	c := &Classifier{
		keywords: keywords.normalized(),
		matcher:  matcher,
	}
	c.rules = []rule{
		{name: "news_trigger", apply: c.newsTrigger},
		{name: "direct_category", apply: c.directCategory},
		{name: "time", apply: c.keywordRule(entity.IntentTimeQuery, c.keywords.Time)},
		{name: "date", apply: c.keywordRule(entity.IntentDateQuery, c.keywords.Date)},
		{name: "greeting", apply: c.keywordRule(entity.IntentGreeting, c.keywords.Greeting)},
		{name: "farewell", apply: c.keywordRule(entity.IntentFarewell, c.keywords.Farewell)},
		{name: "thanks", apply: c.keywordRule(entity.IntentThanks, c.keywords.Thanks)},
	}
	return c
}

// Classify runs the rules in priority order and returns the first match.
// Input that no rule recognizes yields IntentUnrecognized.
func (c *Classifier) Classify(text string, entities []entity.NamedEntity) Decision {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Decision{Intent: entity.IntentUnrecognized}
	}
	for _, r := range c.rules {
		if d, ok := r.apply(lower, entities); ok {
			return d
		}
	}
	return Decision{Intent: entity.IntentUnrecognized}
}

// NeedsEntities reports whether the entity list can influence the decision
// for text. Only the news trigger rule reads entities.
func (c *Classifier) NeedsEntities(text string) bool {
	_, ok := c.firstKeyword(strings.ToLower(text), c.keywords.News)
	return ok
}

// newsTrigger fires on a news keyword. The first category mentioned wins;
// otherwise the first organization, place or person becomes the topic.
func (c *Classifier) newsTrigger(text string, entities []entity.NamedEntity) (Decision, bool) {
	kw, ok := c.firstKeyword(text, c.keywords.News)
	if !ok {
		return Decision{}, false
	}

	d := Decision{Intent: entity.IntentNewsQuery, Keyword: kw}
	if cat, ok := c.firstCategory(text); ok {
		d.Request.Category = cat
		return d, true
	}
	for _, e := range entities {
		if e.IsTopicCandidate() {
			d.Request.Topic = strings.TrimSpace(e.Text)
			break
		}
	}
	return d, true
}

func (c *Classifier) directCategory(text string, _ []entity.NamedEntity) (Decision, bool) {
	cat, ok := c.firstCategory(text)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Intent:  entity.IntentNewsQuery,
		Request: entity.NewsRequest{Category: cat},
		Keyword: string(cat),
	}, true
}

func (c *Classifier) keywordRule(in entity.Intent, keywords []string) func(string, []entity.NamedEntity) (Decision, bool) {
	return func(text string, _ []entity.NamedEntity) (Decision, bool) {
		kw, ok := c.firstKeyword(text, keywords)
		if !ok {
			return Decision{}, false
		}
		return Decision{Intent: in, Keyword: kw}, true
	}
}

func (c *Classifier) firstKeyword(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if c.matcher.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

func (c *Classifier) firstCategory(text string) (entity.Category, bool) {
	for _, cat := range entity.Categories() {
		if c.matcher.Contains(text, string(cat)) {
			return cat, true
		}
	}
	return "", false
}
