package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/refgraph"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		input    inputFlags
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [paths...]",
		Short: "Export the reference graph between schemas",
		Long: `Export the reference graph between schemas.

Each schema is a node; an edge means one schema refers into another. Schemas
that are referenced but not part of the input are drawn dashed, and edges
that close a reference cycle are drawn red. The graph is written as Graphviz
DOT, or rendered to SVG when the output file ends in .svg.`,
		Example: `  jsonderef graph schemas/ -o refs.svg
  jsonderef graph schemas/ --detailed | dot -Tpng > refs.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			schemas, err := input.readSchemas(cmd, args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Graph(ctx, c.pipelineOptions(cmd, schemas))
			if err != nil {
				return err
			}
			for _, cycle := range g.Cycles() {
				printWarning("reference cycle: %s", strings.Join(append(cycle, cycle[0]), " → "))
			}
			for _, uri := range g.Missing() {
				printWarning("unknown schema: %s", uri)
			}

			dot := refgraph.ToDOT(g, refgraph.Options{Detailed: detailed})
			if output == "" {
				_, err := cmd.OutOrStdout().Write([]byte(dot))
				return err
			}

			data := []byte(dot)
			switch strings.ToLower(filepath.Ext(output)) {
			case ".dot", ".gv":
			case ".svg":
				data, err = spin(ctx, "Rendering SVG...", func() ([]byte, error) {
					return refgraph.RenderSVG(ctx, dot)
				})
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph output %q (want .dot or .svg)", output)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			prog.done("Wrote reference graph", "nodes", len(g.Nodes()), "edges", len(g.Edges()))
			printFile(output)
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg); default DOT to stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes and edges with reference counts")

	return cmd
}
