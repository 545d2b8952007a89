package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontastic/pkg/cache"
	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/export"
	"github.com/matzehuels/fontastic/pkg/observability"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

// Suggester is what a runner needs from the suggestion requester.
type Suggester interface {
	Suggest(ctx context.Context, r suggest.LayoutRequest) (suggest.LayoutSuggestion, error)
}

// Runner runs design actions with optional suggestion caching.
// Both CLI and API can use this to avoid duplicating state-transition logic.
//
// The Runner holds no design state; callers pass the design they own.
// Multiple goroutines can safely use the same Runner with different designs.
type Runner struct {
	Suggester Suggester
	Exporter  *export.Exporter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// Model is part of the suggestion cache key so answers from different
	// models are kept apart.
	Model string

	// TTL is the suggestion cache lifetime. Zero uses DefaultSuggestionTTL.
	TTL time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(s Suggester, e *export.Exporter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Suggester: s,
		Exporter:  e,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Request builds the suggestion request for d with the overrides in opts.
func Request(d design.Design, opts SuggestOptions) suggest.LayoutRequest {
	r := suggest.RequestFor(d)
	if opts.Text != nil {
		r.Text = *opts.Text
	}
	if opts.Font != nil {
		r.Font = *opts.Font
	}
	if opts.Spacing != nil {
		r.Spacing = *opts.Spacing
	}
	return r
}

// SuggestWithCacheInfo asks for a suggestion and reports whether it came
// from the cache. Validation runs before the cache lookup, so invalid
// requests never hit the cache or the service.
func (r *Runner) SuggestWithCacheInfo(ctx context.Context, req suggest.LayoutRequest, opts SuggestOptions) (suggest.LayoutSuggestion, bool, error) {
	if err := suggest.Validate(req); err != nil {
		return suggest.LayoutSuggestion{}, false, err
	}
	if r.Suggester == nil {
		return suggest.LayoutSuggestion{}, false, errors.New(errors.ErrCodeInvalidConfig, "no suggestion backend configured")
	}

	cacheKey := r.Keyer.SuggestionKey(cache.SuggestionKeyOpts{
		Model:   r.Model,
		Text:    req.Text,
		Font:    req.Font,
		Spacing: req.Spacing,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var s suggest.LayoutSuggestion
			if json.Unmarshal(data, &s) == nil {
				observability.Cache().OnCacheHit(ctx, cacheKeyType)
				r.Logger.Debug("suggestion cache hit", "text", req.Text)
				return s, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	s, err := r.Suggester.Suggest(ctx, req)
	if err != nil {
		return suggest.LayoutSuggestion{}, false, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		} else {
			r.Logger.Debug("suggestion cache write failed", "error", err)
		}
	}
	return s, false, nil
}

// Suggest is a convenience wrapper that calls SuggestWithCacheInfo and discards the cache hit info.
func (r *Runner) Suggest(ctx context.Context, req suggest.LayoutRequest, opts SuggestOptions) (suggest.LayoutSuggestion, error) {
	s, _, err := r.SuggestWithCacheInfo(ctx, req, opts)
	return s, err
}

// RequestSuggestion fetches a suggestion for d and updates d's held
// suggestion: replaced on success, cleared on any non-validation failure,
// untouched when the request is invalid.
func (r *Runner) RequestSuggestion(ctx context.Context, d *design.Design, opts SuggestOptions) (suggest.LayoutSuggestion, error) {
	req := Request(*d, opts)
	s, err := r.Suggest(ctx, req, opts)
	switch {
	case err == nil:
		d.SetSuggestion(s)
		r.Logger.Info("layout suggestion ready", "spacing", s.SuggestedSpacing)
	case errors.Is(err, errors.ErrCodeInvalidInput):
		r.Logger.Debug("suggestion request rejected", "error", err)
	default:
		d.ClearSuggestion()
		r.Logger.Debug("suggestion request failed", "error", err)
	}
	return s, err
}

// ApplySuggestion sets d's spacing to the held suggestion exactly.
func (r *Runner) ApplySuggestion(d *design.Design) error {
	if !d.ApplySuggestion() {
		return errors.New(errors.ErrCodeNotFound, "No suggestion to apply.")
	}
	r.Logger.Debug("applied suggested spacing", "spacing", d.Spacing)
	return nil
}

// Export produces the download for d in format. Exports are never cached.
func (r *Runner) Export(ctx context.Context, d design.Design, format string) (export.Download, error) {
	if err := ValidateFormat(format); err != nil {
		return export.Download{}, errors.Wrap(errors.ErrCodeUnsupported, err, "unsupported export format %q", format)
	}
	if r.Exporter == nil {
		return export.Download{}, errors.New(errors.ErrCodeInvalidConfig, "no exporter configured")
	}
	return r.Exporter.Export(ctx, d, format)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultSuggestionTTL
}
