// Package gemini provides a client for the Google Gemini generateContent API.
//
// # Overview
//
// [Generator] implements suggest.Generator: it sends a single-turn prompt
// with a JSON response schema and returns the model's JSON answer as text.
//
//	gen := gemini.New(apiKey, gemini.WithModel("gemini-2.0-flash"))
//	raw, err := gen.Generate(ctx, prompt, suggest.OutputSchema)
//
// # Errors
//
// Failures are mapped to pkg/errors codes:
//   - NETWORK_ERROR: the service could not be reached
//   - TIMEOUT: the round trip exceeded its deadline
//   - UNAUTHORIZED: 401/403, usually a missing or invalid API key
//   - RATE_LIMITED: 429
//   - SERVICE_ERROR: any other non-2xx status, or a blocked prompt
//
// The API's error message is kept as the error's user message.
package gemini

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/integrations"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

// Defaults for the public Gemini endpoint.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// Generator calls generateContent for one model.
type Generator struct {
	client  *integrations.Client
	baseURL string
	model   string
	logger  *log.Logger
	hasKey  bool
}

var _ suggest.Generator = (*Generator)(nil)

// Option configures a [Generator].
type Option func(*generatorConfig)

type generatorConfig struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger
}

// WithBaseURL overrides the API endpoint (useful for proxies and tests).
func WithBaseURL(u string) Option { return func(c *generatorConfig) { c.baseURL = u } }

// WithModel selects the model, e.g. "gemini-2.0-flash".
func WithModel(m string) Option { return func(c *generatorConfig) { c.model = m } }

// WithTimeout bounds a single round trip.
func WithTimeout(d time.Duration) Option { return func(c *generatorConfig) { c.timeout = d } }

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *generatorConfig) { c.httpClient = hc } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *generatorConfig) { c.logger = l } }

// New creates a generator authenticated with apiKey.
func New(apiKey string, opts ...Option) *Generator {
	cfg := generatorConfig{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"x-goog-api-key": apiKey}
	}
	client := integrations.NewClient(cfg.timeout, headers)
	if cfg.httpClient != nil {
		client.WithHTTPClient(cfg.httpClient)
	}

	return &Generator{
		client:  client,
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		model:   cfg.model,
		logger:  cfg.logger,
		hasKey:  apiKey != "",
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

// Endpoint returns the generateContent URL for the configured model.
func (g *Generator) Endpoint() string {
	return g.baseURL + "/v1beta/models/" + url.PathEscape(g.model) + ":generateContent"
}

// Generate implements suggest.Generator. It returns the text parts of the
// first candidate, concatenated, or "" when the model returned no candidate.
func (g *Generator) Generate(ctx context.Context, prompt string, schema *suggest.Schema) (string, error) {
	if !g.hasKey {
		return "", errors.New(errors.ErrCodeUnauthorized, "no Gemini API key configured (set GEMINI_API_KEY)")
	}

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}

	var resp generateResponse
	if err := g.client.PostJSON(ctx, g.Endpoint(), req, &resp); err != nil {
		return "", classify(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", errors.New(errors.ErrCodeService, "prompt was blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	c := resp.Candidates[0]
	g.logger.Debug("gemini response", "model", g.model, "finish", c.FinishReason)

	var sb strings.Builder
	if c.Content != nil {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// classify maps a transport or status failure to a coded error.
func classify(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, integrations.ErrTimeout) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "request cancelled")
	}
	if stderrors.Is(err, integrations.ErrNetwork) {
		return errors.Wrap(errors.ErrCodeNetwork, err, "could not reach the AI service")
	}

	var se *integrations.StatusError
	if !stderrors.As(err, &se) {
		return errors.Wrap(errors.ErrCodeService, err, "%v", err)
	}

	msg := apiMessage(se)
	switch se.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(errors.ErrCodeUnauthorized, se, "%s", msg)
	case http.StatusTooManyRequests:
		return errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: se.RetryAfter, Message: msg}, "%s", msg)
	default:
		return errors.Wrap(errors.ErrCodeService, se, "%s", msg)
	}
}
