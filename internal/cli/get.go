package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/schemaio"
)

// getCommand creates the get command.
func (c *CLI) getCommand() *cobra.Command {
	var (
		input   inputFlags
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "get <location> [paths...]",
		Short: "Print the dereferenced value at one location",
		Long: `Print the dereferenced value at one location.

The location is a schema URI with an optional JSON Pointer fragment, for
example "models.json#/definitions/User". Only the schemas the location
depends on are resolved, so defects elsewhere in the set do not fail the
command.`,
		Example: `  jsonderef get 'api.json#/paths/~1users/get' schemas/
  jsonderef get models.json schemas/ --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := schemaio.ParseFormat(stringOption(cmd, "format", c.Config.Format))
			if err != nil {
				return err
			}
			schemas, err := input.readSchemas(cmd, args[1:])
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, schemas)
			opts.Refresh = refresh

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Lookup(ctx, opts, args[0])
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("lookup done", "location", res.Location, "cache_hit", res.CacheHit)
			return schemaio.Write(cmd.OutOrStdout(), res.Value, format)
		},
	}

	input.register(cmd)
	cmd.Flags().StringP("format", "f", "", "output format: json or yaml (default from config, else json)")
	cmd.Flags().Bool("merge-additional-properties", false, "merge keywords next to $ref into the referenced value")
	cmd.Flags().Bool("remove-ids", false, "drop the $id of inlined documents")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}
