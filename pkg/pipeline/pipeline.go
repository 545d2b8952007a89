// Package pipeline ties the suggestion and export paths to design state.
//
// The CLI, the studio and the HTTP API all perform the same two actions on
// a [design.Design]: ask the AI service for a layout suggestion, and export
// the logo. By centralizing this logic, each surface gets the same state
// transitions:
//
//   - A successful suggestion replaces the held suggestion.
//   - A failed suggestion (service error) clears it.
//   - A validation failure leaves the design untouched.
//   - An export never changes the design.
//
// # Usage
//
//	runner := pipeline.NewRunner(requester, exporter, nil, nil, logger)
//	if _, err := runner.RequestSuggestion(ctx, &d, pipeline.SuggestOptions{}); err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	}
//	dl, err := runner.Export(ctx, d, pipeline.FormatPNG)
//
// Suggestions can be cached (opt in by passing a cache); exports are
// derived from the current design on every call and never cached.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/fontastic/pkg/export"
)

// Format constants for export formats.
const (
	FormatSVG = export.FormatSVG
	FormatPNG = export.FormatPNG
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// DefaultSuggestionTTL is how long a cached suggestion is reused.
const DefaultSuggestionTTL = 24 * time.Hour

// cacheKeyType labels suggestion entries in cache hooks.
const cacheKeyType = "suggestion"

// SuggestOptions controls a single suggestion request.
type SuggestOptions struct {
	// Text, Font and Spacing override the design's values when set.
	Text    *string
	Font    *string
	Spacing *float64

	// Refresh skips the cache lookup; the fresh answer is still stored.
	Refresh bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png)", format)
	}
	return nil
}
