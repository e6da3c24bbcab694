package chat

import (
	"fmt"
	"strings"
	"time"

	"newsbot/internal/domain/entity"
)

// ArticleStyle selects how article lists are rendered.
type ArticleStyle string

const (
	// StyleEmoji renders each article with emoji markers.
	StyleEmoji ArticleStyle = "emoji"
	// StylePlain renders a numbered list without decoration.
	StylePlain ArticleStyle = "plain"
)

// ParseArticleStyle converts a configuration value into an ArticleStyle.
func ParseArticleStyle(s string) (ArticleStyle, error) {
	switch ArticleStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleEmoji:
		return StyleEmoji, nil
	case StylePlain:
		return StylePlain, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownArticleStyle)
	}
}

// Fixed replies for the news path.
const (
	NotConfiguredMessage = "News API is not configured. Please set the NEWS_API_KEY environment variable."
	NoArticlesMessage    = "I couldn't find any news articles for that request."
	apologyPrefix        = "Sorry, I couldn't fetch the news at the moment. Error: "
	articlesHeader       = "📰 Here are the latest news articles:"
	plainArticlesHeader  = "Here are the latest news articles:"

	timeLayout = "3:04 PM"
	dateLayout = "January 02, 2006"
)

// FormatterConfig configures a Formatter. Zero values fall back to defaults.
type FormatterConfig struct {
	Pools  ResponsePools
	Picker Picker
	Clock  func() time.Time
	Style  ArticleStyle
}

// Formatter renders the reply text for a decided intent.
type Formatter struct {
	pools ResponsePools
	pick  Picker
	now   func() time.Time
	style ArticleStyle
}

// NewFormatter validates the pools and builds a Formatter.
func NewFormatter(cfg FormatterConfig) (*Formatter, error) {
	if err := cfg.Pools.Validate(); err != nil {
		return nil, fmt.Errorf("invalid response pools: %w", err)
	}
	style := cfg.Style
	if style == "" {
		style = StyleEmoji
	}
	if style != StyleEmoji && style != StylePlain {
		return nil, fmt.Errorf("%q: %w", style, ErrUnknownArticleStyle)
	}

	f := &Formatter{
		pools: cfg.Pools,
		pick:  cfg.Picker,
		now:   cfg.Clock,
		style: style,
	}
	if f.pick == nil {
		f.pick = RandomPicker
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f, nil
}

// Phrase picks a templated reply for a conversational intent.
// Intents without a pool of their own use the default pool.
func (f *Formatter) Phrase(in entity.Intent) string {
	var pool []string
	switch in {
	case entity.IntentGreeting:
		pool = f.pools.Greeting
	case entity.IntentFarewell:
		pool = f.pools.Farewell
	case entity.IntentThanks:
		pool = f.pools.Thanks
	default:
		pool = f.pools.Default
	}
	idx := f.pick(len(pool))
	if idx < 0 || idx >= len(pool) {
		idx = 0
	}
	return pool[idx]
}

// Time renders the current wall-clock time, e.g. "The current time is 3:04 PM".
func (f *Formatter) Time() string {
	return "The current time is " + f.now().Format(timeLayout)
}

// Date renders the current date, e.g. "Today's date is January 02, 2006".
func (f *Formatter) Date() string {
	return "Today's date is " + f.now().Format(dateLayout)
}

// Apology embeds the failure description into the fixed apology.
func (f *Formatter) Apology(err error) string {
	return apologyPrefix + err.Error()
}

// Articles renders a list of articles in the configured style.
func (f *Formatter) Articles(articles []entity.Article) string {
	if len(articles) == 0 {
		return NoArticlesMessage
	}
	var b strings.Builder
	if f.style == StylePlain {
		b.WriteString(plainArticlesHeader)
		b.WriteString("\n\n")
		for i, a := range articles {
			writePlain(&b, i+1, a)
		}
	} else {
		b.WriteString(articlesHeader)
		b.WriteString("\n\n")
		for _, a := range articles {
			writeEmoji(&b, a)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeEmoji(b *strings.Builder, a entity.Article) {
	fmt.Fprintf(b, "📌 %s\n", a.Title)
	if !a.PublishedAt.IsZero() {
		fmt.Fprintf(b, "   📅 %s\n", a.PublishedAt.Format(dateLayout))
	}
	fmt.Fprintf(b, "   📰 Source: %s\n", a.SourceName)
	if a.HasDescription() {
		fmt.Fprintf(b, "   📝 %s\n", strings.TrimSpace(a.Description))
	}
	fmt.Fprintf(b, "   🔗 %s\n\n", a.URL)
}

func writePlain(b *strings.Builder, n int, a entity.Article) {
	fmt.Fprintf(b, "%d. %s\n", n, a.Title)
	fmt.Fprintf(b, "   Source: %s\n", a.SourceName)
	if !a.PublishedAt.IsZero() {
		fmt.Fprintf(b, "   Published: %s\n", a.PublishedAt.Format(dateLayout))
	}
	if a.HasDescription() {
		fmt.Fprintf(b, "   %s\n", strings.TrimSpace(a.Description))
	}
	fmt.Fprintf(b, "   URL: %s\n\n", a.URL)
}
