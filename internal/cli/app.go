package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/fontastic/pkg/cache"
	"github.com/matzehuels/fontastic/pkg/config"
	"github.com/matzehuels/fontastic/pkg/export"
	"github.com/matzehuels/fontastic/pkg/integrations/gemini"
	"github.com/matzehuels/fontastic/pkg/measure"
	"github.com/matzehuels/fontastic/pkg/pipeline"
	"github.com/matzehuels/fontastic/pkg/render"
	"github.com/matzehuels/fontastic/pkg/session"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner builds a pipeline runner from the loaded config.
// Callers must Close it to release the cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	exporter, err := c.newExporter()
	if err != nil {
		return nil, err
	}
	gen := c.newGenerator()
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	runner := pipeline.NewRunner(suggest.NewRequester(gen, c.Logger), exporter, cc, keyer, c.Logger)
	runner.Model = gen.Model()
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// newGenerator creates the Gemini backend. A missing API key is reported
// when a suggestion is requested, not here, so design and export commands
// work without one.
func (c *CLI) newGenerator() *gemini.Generator {
	ai := c.Config.AI
	return gemini.New(ai.APIKey,
		gemini.WithBaseURL(ai.BaseURL),
		gemini.WithModel(ai.Model),
		gemini.WithTimeout(ai.Timeout.Duration),
		gemini.WithLogger(c.Logger),
	)
}

// newExporter creates the measurer, rasterizer and exporter named by the
// export config.
func (c *CLI) newExporter() (*export.Exporter, error) {
	ex := c.Config.Export
	m, err := measure.NewTextMeasurer(ex.FontPath,
		measure.WithColor(ex.Fill),
		measure.WithFontWeight(ex.FontWeight),
		measure.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("load logo font: %w", err)
	}

	var r render.Rasterizer
	switch ex.Rasterizer {
	case config.RasterizerRSVG:
		r = &render.RSVGRasterizer{Command: ex.RSVGCommand}
	default:
		family, err := measure.LoadFamily(m.Source())
		if err != nil {
			return nil, err
		}
		r = render.NewCanvasRasterizer(family)
	}

	return export.New(m, r,
		export.WithScale(ex.Scale),
		export.WithDecodeTimeout(ex.DecodeTimeout.Duration),
		export.WithSVGOptions(
			render.WithPadding(ex.Padding),
			render.WithMinSize(ex.MinWidth, ex.MinHeight),
		),
		export.WithLogger(c.Logger),
	), nil
}

// newCache opens the configured suggestion cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case config.BackendFile:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
	}
	return cache.NewNullCache(), nil
}

// newSessionStore opens the configured session store.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	sc := c.Config.Session
	switch sc.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendRedis:
		return session.NewRedisStore(ctx, sc.RedisAddr)
	case config.BackendMongo:
		return session.NewMongoStore(ctx, session.MongoConfig{URI: sc.MongoURI, Database: sc.MongoDatabase})
	}
	return session.NewFileStore(sc.Dir)
}

// =============================================================================
// Design State
// =============================================================================

// openSession loads the design named by --session.
func (c *CLI) openSession(ctx context.Context) (session.Store, *session.Session, error) {
	store, err := c.newSessionStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	sess, err := session.Load(ctx, store, c.sessionID, c.Config.Session.TTL.Duration)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load design: %w", err)
	}
	return store, sess, nil
}

// saveSession stores the design back.
func (c *CLI) saveSession(ctx context.Context, store session.Store, sess *session.Session) error {
	if err := session.Save(ctx, store, sess, c.Config.Session.TTL.Duration); err != nil {
		return fmt.Errorf("save design: %w", err)
	}
	return nil
}
