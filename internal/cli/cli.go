package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/buildinfo"
	"github.com/matzehuels/fontastic/pkg/config"
	"github.com/matzehuels/fontastic/pkg/observability"
	"github.com/matzehuels/fontastic/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "fontastic"

// ErrReported is returned by commands that already printed their failure.
// main exits non-zero without printing it again.
var ErrReported = errors.New("error reported")

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
	sessionID  string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Fontastic designs text logos",
		Long:          `Fontastic is a text-logo design tool. Type text, tune font size and letter spacing, ask an AI model for layout suggestions, and export the result as SVG or 2x PNG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fontastic/config.toml)")
	flags.StringVar(&c.sessionID, "session", session.DefaultID, "name of the saved design to work on")

	// Register all subcommands
	root.AddCommand(c.designCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.studioCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if cmd.Name() == "completion" {
		return nil
	}

	cfg, err := config.Load(config.LoadOptions{Path: c.configPath})
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	registerLogHooks(c.Logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// registerLogHooks routes observability events to the logger.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetSuggestHooks(h)
	observability.SetExportHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// stderrIsTerminal reports whether progress indicators should be drawn.
func stderrIsTerminal() bool {
	return isTerminal(os.Stderr)
}
