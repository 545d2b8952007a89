package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API that backs the web editor.

Each browser gets its own design, kept in the configured session store and
identified by a cookie.`,
		Example: `  fontastic serve
  fontastic serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(runner, store,
				server.WithSessionTTL(c.Config.Session.TTL.Duration),
				server.WithSecureCookie(c.Config.Server.SecureCookie),
				server.WithLogger(c.Logger),
			)
			return srv.ListenAndServe(ctx, c.Config.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
