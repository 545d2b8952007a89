package suggest

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/observability"
)

// User-facing service failures.
const (
	msgServiceFailed = "An error occurred while fetching AI suggestions: %s"
	msgUnexpected    = "An unexpected error occurred while fetching AI suggestions. Please try again."
	msgEmpty         = "AI service returned an empty response."
)

// Generator produces model output for a prompt, constrained to schema.
// It returns the raw JSON text of the answer; an empty string means the
// model produced nothing.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func(ctx context.Context, prompt string, schema *Schema) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	return f(ctx, prompt, schema)
}

// Requester turns layout requests into suggestions.
type Requester struct {
	gen    Generator
	logger *log.Logger
}

// NewRequester returns a requester backed by gen. A nil logger falls back
// to log.Default().
func NewRequester(gen Generator, logger *log.Logger) *Requester {
	if logger == nil {
		logger = log.Default()
	}
	return &Requester{gen: gen, logger: logger}
}

// Suggest validates r, asks the model once and returns its checked answer.
// Validation failures never reach the model.
func (q *Requester) Suggest(ctx context.Context, r LayoutRequest) (s LayoutSuggestion, err error) {
	if err := Validate(r); err != nil {
		return LayoutSuggestion{}, err
	}

	start := time.Now()
	observability.Suggest().OnSuggestStart(ctx, r.Text, r.Font)
	defer func() {
		observability.Suggest().OnSuggestComplete(ctx, time.Since(start), err)
	}()

	prompt, err := Prompt(r)
	if err != nil {
		return LayoutSuggestion{}, errors.Wrap(errors.ErrCodeInternal, err, "render prompt")
	}
	if q.gen == nil {
		return LayoutSuggestion{}, serviceError(errors.New(errors.ErrCodeInvalidConfig, "no AI backend configured"))
	}

	q.logger.Debug("requesting layout suggestion", "text", r.Text, "font", r.Font, "spacing", r.Spacing)
	raw, err := q.gen.Generate(ctx, prompt, OutputSchema)
	if err != nil {
		return LayoutSuggestion{}, serviceError(err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return LayoutSuggestion{}, errors.New(errors.ErrCodeService, msgEmpty)
	}
	if err := OutputSchema.Check([]byte(raw)); err != nil {
		return LayoutSuggestion{}, serviceError(err)
	}

	var out LayoutSuggestion
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return LayoutSuggestion{}, serviceError(err)
	}
	q.logger.Debug("received layout suggestion", "spacing", out.SuggestedSpacing)
	return out, nil
}

// serviceError wraps a generator failure with the message shown to users.
func serviceError(cause error) error {
	msg := strings.TrimSpace(errors.UserMessage(cause))
	if msg == "" {
		return errors.Wrap(errors.ErrCodeService, cause, msgUnexpected)
	}
	return errors.Wrap(errors.ErrCodeService, cause, msgServiceFailed, msg)
}
