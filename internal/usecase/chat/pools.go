package chat

import (
	"fmt"
	"math/rand/v2"
)

// ResponsePools holds the candidate replies for the conversational intents.
// Default is used for unrecognized input.
type ResponsePools struct {
	Greeting []string `yaml:"greeting"`
	Farewell []string `yaml:"farewell"`
	Thanks   []string `yaml:"thanks"`
	Default  []string `yaml:"default"`
}

// DefaultResponsePools returns the built-in replies.
func DefaultResponsePools() ResponsePools {
	return ResponsePools{
		Greeting: []string{
			"Hello! I'm your news assistant. What would you like to know about?",
			"Hi there! I can help you stay updated with the latest news. What interests you?",
			"Hey! Ready to explore the latest news? What would you like to know?",
		},
		Farewell: []string{
			"Goodbye! Stay informed!",
			"See you later! Keep up with the news!",
			"Take care! Come back for more news updates!",
		},
		Thanks: []string{
			"You're welcome! Let me know if you need more news updates!",
			"No problem! Feel free to ask for more news anytime!",
			"Glad I could help! Stay tuned for more news!",
		},
		Default: []string{
			"I'm not sure about that. Would you like to know about the latest news instead?",
			"I'm focused on delivering news. Would you like to know about current events?",
			"I can help you with the latest news. What would you like to know?",
		},
	}
}

// Validate checks that every pool has at least one candidate.
func (p ResponsePools) Validate() error {
	pools := []struct {
		name  string
		items []string
	}{
		{"greeting", p.Greeting},
		{"farewell", p.Farewell},
		{"thanks", p.Thanks},
		{"default", p.Default},
	}
	for _, pool := range pools {
		if len(pool.items) == 0 {
			return fmt.Errorf("%s: %w", pool.name, ErrEmptyPool)
		}
	}
	return nil
}

// Picker returns an index in [0, n). n is always positive.
type Picker func(n int) int

// RandomPicker selects uniformly at random.
func RandomPicker(n int) int {
	// #nosec G404 -- reply selection does not need cryptographic randomness
	return rand.IntN(n)
}
