// Package cli implements the fontastic command-line interface.
//
// This package provides commands for editing a saved logo design, asking the
// AI service for layout suggestions, exporting SVG and PNG files, running
// the interactive studio, and serving the HTTP API. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - design: Show or edit the saved design
//   - suggest: Request an AI layout suggestion
//   - export: Write the logo as SVG or PNG
//   - studio: Interactive terminal editor
//   - serve: Run the HTTP API
//   - cache: Manage the suggestion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/fontastic/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages below level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported Fontastic_logo.png (41ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes observability events to a logger at debug level, with
// failures at warn.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnSuggestStart(ctx context.Context, text, font string) {
	h.logger.Debug("suggestion requested", "text", text, "font", font)
}

func (h *logHooks) OnSuggestComplete(ctx context.Context, duration time.Duration, err error) {
	if err != nil {
		h.logger.Warn("suggestion failed", "duration", duration.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("suggestion received", "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnExportStart(ctx context.Context, format string) {
	h.logger.Debug("export started", "format", format)
}

func (h *logHooks) OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("export finished", "format", format, "bytes", size, "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "status", statusCode, "duration", duration.Round(time.Millisecond))
}

func (h *logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "error", err)
}
