package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dereferencer over HTTP",
		Long: `Serve the dereferencer over HTTP.

Endpoints:
  POST /v1/dereference  {"schemas": [...], "options": {"merge_additional_properties": false, "remove_ids": false}}
  POST /v1/lookup       same body plus "location"
  GET  /healthz
  GET  /version

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr := stringOption(cmd, "addr", c.Config.Server.Addr)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			backend := c.backendName()
			if noCache {
				backend = "none"
			}
			printInfo("Serving on %s (cache: %s)", addr, backend)
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
