package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/schemaio"
)

// browseCommand creates the interactive schema browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		input   inputFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse [paths...]",
		Short: "Pick a schema interactively and print it dereferenced",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := schemaio.ParseFormat(stringOption(cmd, "format", c.Config.Format))
			if err != nil {
				return err
			}
			schemas, err := input.readSchemas(cmd, args)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, schemas)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Graph(ctx, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewSchemaListModel(schemaItems(g)), tea.WithContext(ctx), tea.WithOutput(statusOut))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			m, ok := final.(SchemaListModel)
			if !ok || m.Selected == nil {
				return nil
			}

			res, err := runner.Lookup(ctx, opts, m.Selected.URI)
			if err != nil {
				return err
			}
			return schemaio.Write(cmd.OutOrStdout(), res.Value, format)
		},
	}

	input.register(cmd)
	cmd.Flags().StringP("format", "f", "", "output format: json or yaml (default from config, else json)")
	cmd.Flags().Bool("merge-additional-properties", false, "merge keywords next to $ref into the referenced value")
	cmd.Flags().Bool("remove-ids", false, "drop the $id of inlined documents")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
