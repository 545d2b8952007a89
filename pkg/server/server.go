// Package server exposes the design surface as a JSON/HTTP API.
//
// Each browser gets a session, identified by the fontastic_session cookie,
// holding one design. The routes mirror the page actions:
//
//	GET   /healthz
//	GET   /api/design
//	PATCH /api/design                   {"text", "fontSize", "spacing"}
//	POST  /api/suggestions              {"text", "font", "spacing"}
//	POST  /api/design/apply-suggestion
//	GET   /api/export/{svg|png}         ?format=datauri for JSON
//
// Errors are returned as {"error": "<message>"} with the message users see.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fontastic/pkg/pipeline"
	"github.com/matzehuels/fontastic/pkg/session"
)

// CookieName is the session cookie.
const CookieName = "fontastic_session"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner       *pipeline.Runner
	store        session.Store
	ttl          time.Duration
	secureCookie bool
	logger       *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.ttl = d }
}

// WithSecureCookie marks the session cookie Secure (HTTPS only).
func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server running actions through runner and keeping designs
// in store.
func New(runner *pipeline.Runner, store session.Store, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  store,
		ttl:    session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/design", s.handleGetDesign)
		r.Patch("/design", s.handlePatchDesign)
		r.Post("/design/apply-suggestion", s.handleApplySuggestion)
		r.Post("/suggestions", s.handleSuggest)
		r.Get("/export/{format}", s.handleExport)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
