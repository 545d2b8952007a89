package cache

// Keyer generates cache keys.
type Keyer interface {
	// SuggestionKey returns the key for an AI layout suggestion.
	SuggestionKey(opts SuggestionKeyOpts) string
}

// SuggestionKeyOpts are the inputs that determine a suggestion.
type SuggestionKeyOpts struct {
	Model   string  `json:"model"`
	Text    string  `json:"text"`
	Font    string  `json:"font"`
	Spacing float64 `json:"spacing"`
}

// DefaultKeyer hashes key inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SuggestionKey implements [Keyer].
func (DefaultKeyer) SuggestionKey(opts SuggestionKeyOpts) string {
	return hashKey("suggestion", opts)
}
