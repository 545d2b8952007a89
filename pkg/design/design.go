// Package design holds the editable state of a text logo.
//
// A [Design] is what the user manipulates: the logo text, the font size and
// the letter spacing, plus the most recent AI layout suggestion. The CLI,
// the studio TUI and the HTTP API all share this type; they differ only in
// how they persist it between actions (see the session package).
//
// Sliders clamp and snap their values to the ranges below. Applying a
// suggestion does not: the suggested spacing is taken exactly as returned.
package design

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Slider ranges for the two numeric controls.
const (
	MinFontSize  = 12
	MaxFontSize  = 200
	FontSizeStep = 1

	MinSpacing  = -10.0
	MaxSpacing  = 50.0
	SpacingStep = 0.1
)

// Defaults for a fresh design.
const (
	DefaultText     = "Fontastic"
	DefaultFontSize = 72
	DefaultSpacing  = 1.0
)

// FontName is the font name sent to the AI service with every request.
const FontName = "Montserrat"

// Placeholder is what the preview shows (and what gets measured) when the
// text is empty.
const Placeholder = "Your Text Here"

// fallbackBaseName is used for file names when the text is blank.
const fallbackBaseName = "logo"

// Suggestion is an AI layout recommendation held in the design state until
// it is replaced or cleared.
type Suggestion struct {
	SuggestedSpacing  float64 `json:"suggestedSpacing" bson:"suggested_spacing"`
	LayoutSuggestions string  `json:"layoutSuggestions" bson:"layout_suggestions"`
}

// Design is the current state of a logo.
type Design struct {
	Text       string      `json:"text" bson:"text"`
	FontSize   int         `json:"fontSize" bson:"font_size"`
	Spacing    float64     `json:"spacing" bson:"spacing"`
	Suggestion *Suggestion `json:"suggestion,omitempty" bson:"suggestion,omitempty"`
}

// New returns a design with the default text, size and spacing.
func New() Design {
	return Design{
		Text:     DefaultText,
		FontSize: DefaultFontSize,
		Spacing:  DefaultSpacing,
	}
}

// SetText replaces the logo text. Whitespace is kept as typed.
func (d *Design) SetText(text string) {
	d.Text = text
}

// SetFontSize moves the font size slider. The value is clamped to
// [MinFontSize, MaxFontSize].
func (d *Design) SetFontSize(size int) {
	d.FontSize = min(max(size, MinFontSize), MaxFontSize)
}

// SetSpacing moves the spacing slider. The value is clamped to
// [MinSpacing, MaxSpacing] and snapped to SpacingStep.
func (d *Design) SetSpacing(spacing float64) {
	if math.IsNaN(spacing) {
		return
	}
	spacing = math.Min(math.Max(spacing, MinSpacing), MaxSpacing)
	d.Spacing = snap(spacing)
}

// NudgeFontSize moves the font size slider by steps.
func (d *Design) NudgeFontSize(steps int) {
	d.SetFontSize(d.FontSize + steps*FontSizeStep)
}

// NudgeSpacing moves the spacing slider by steps.
func (d *Design) NudgeSpacing(steps int) {
	d.SetSpacing(d.Spacing + float64(steps)*SpacingStep)
}

// SetSuggestion stores a fresh suggestion, replacing any previous one.
func (d *Design) SetSuggestion(s Suggestion) {
	d.Suggestion = &s
}

// ClearSuggestion drops the held suggestion.
func (d *Design) ClearSuggestion() {
	d.Suggestion = nil
}

// ApplySuggestion sets the spacing to the held suggestion's value exactly.
// It reports false when there is no suggestion to apply.
func (d *Design) ApplySuggestion() bool {
	if d.Suggestion == nil {
		return false
	}
	d.Spacing = d.Suggestion.SuggestedSpacing
	return true
}

// PreviewText is the text the preview renders: the design text, or the
// placeholder when the text is empty.
func (d Design) PreviewText() string {
	if d.Text == "" {
		return Placeholder
	}
	return d.Text
}

// IsBlank reports whether the text has nothing but whitespace.
func (d Design) IsBlank() bool {
	return strings.TrimSpace(d.Text) == ""
}

// CleanText returns the trimmed text, or "logo" when it is blank.
func (d Design) CleanText() string {
	return CleanText(d.Text)
}

// CleanText returns the trimmed text, or "logo" when it is blank.
func CleanText(text string) string {
	if clean := strings.TrimSpace(text); clean != "" {
		return clean
	}
	return fallbackBaseName
}

// FileBaseName turns clean text into a download base name by replacing
// each run of whitespace with a single underscore.
func FileBaseName(cleanText string) string {
	fields := strings.FieldsFunc(cleanText, unicode.IsSpace)
	if len(fields) == 0 {
		return fallbackBaseName
	}
	return strings.Join(fields, "_")
}

// FileName returns the download name for the given extension,
// e.g. FileName("My  Logo", "svg") == "My_Logo_logo.svg".
func FileName(cleanText, ext string) string {
	return FileBaseName(cleanText) + "_logo." + ext
}

// FormatSpacing renders a spacing value the way the slider label shows it.
func FormatSpacing(spacing float64) string {
	return fmt.Sprintf("%.1fpx", spacing)
}

// FormatFontSize renders a font size the way the slider label shows it.
func FormatFontSize(size int) string {
	return fmt.Sprintf("%dpx", size)
}

// snap rounds v to one decimal (SpacingStep), avoiding float noise such as
// 1.2000000000000002.
func snap(v float64) float64 {
	return math.Round(v*10) / 10
}
