package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/pipeline"
	"github.com/matzehuels/jsonderef/pkg/refgraph"
	"github.com/matzehuels/jsonderef/pkg/schemaio"
)

// inputFlags are shared by every command that reads schemas.
type inputFlags struct {
	idFromPath bool
	format     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.idFromPath, "id-from-path", false, "give documents without $id one derived from their file path")
	cmd.Flags().StringVar(&f.format, "input-format", "", "format of stdin input: json or yaml (default json)")
}

// readSchemas loads the documents named by paths; no paths means stdin.
func (f *inputFlags) readSchemas(cmd *cobra.Command, paths []string) ([]any, error) {
	if len(paths) == 0 {
		paths = []string{schemaio.Stdin}
	}
	opts := schemaio.LoadOptions{IDFromPath: f.idFromPath, Stdin: cmd.InOrStdin()}
	if f.format != "" {
		format, err := schemaio.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts.StdinFormat = format
	}
	return schemaio.Load(paths, opts)
}

// derefFlags holds the flags of the deref command.
type derefFlags struct {
	inputFlags
	output    string
	outDir    string
	format    string
	merge     bool
	removeIDs bool
	noCache   bool
	refresh   bool
	summary   bool
}

// derefCommand creates the deref command.
func (c *CLI) derefCommand() *cobra.Command {
	var flags derefFlags

	cmd := &cobra.Command{
		Use:   "deref [paths...]",
		Short: "Inline every $ref in a set of schemas",
		Long: `Inline every $ref in a set of JSON Schema documents.

Paths may be files or directories; directories are searched recursively for
.json, .yaml and .yml files. With no paths, or "-", documents are read from
stdin. A file holding a top-level array contributes one document per element.

Every document needs a unique "$id". References are resolved against the $id
of the document they appear in. A node with "$deref": false is copied as-is.`,
		Example: `  # Dereference a directory of schemas to stdout
  jsonderef deref schemas/

  # Write one file per schema, as YAML
  jsonderef deref schemas/ --out-dir build --format yaml

  # Allow keywords next to $ref and drop inlined $id values
  jsonderef deref api.json models.json --merge-additional-properties --remove-ids`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeref(cmd, args, &flags)
		},
	}

	flags.inputFlags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result to a file instead of stdout")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "write one file per schema into this directory")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: json or yaml (default from config, else json)")
	cmd.Flags().BoolVar(&flags.merge, "merge-additional-properties", false, "merge keywords next to $ref into the referenced value")
	cmd.Flags().BoolVar(&flags.removeIDs, "remove-ids", false, "drop the $id of inlined documents")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and recompute")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a per-schema summary table")
	cmd.MarkFlagsMutuallyExclusive("output", "out-dir")

	return cmd
}

func (c *CLI) runDeref(cmd *cobra.Command, args []string, flags *derefFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	format, err := c.outputFormat(cmd, flags.output)
	if err != nil {
		return err
	}

	schemas, err := flags.readSchemas(cmd, args)
	if err != nil {
		return err
	}
	opts := c.pipelineOptions(cmd, schemas)
	opts.Refresh = flags.refresh

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := spin(ctx, "Dereferencing schemas...", func() (*pipeline.Result, error) {
		return runner.Execute(ctx, opts)
	})
	if err != nil {
		return err
	}
	prog.done("Dereferenced schemas", "schemas", result.Stats.Schemas, "references", result.Stats.References, "cache_hit", result.CacheHit)

	if err := writeResult(cmd.OutOrStdout(), result, format, flags.output, flags.outDir); err != nil {
		return err
	}

	if flags.output != "" || flags.outDir != "" {
		printSuccess("Dereferenced %s", plural(result.Stats.Schemas, "schema"))
		printStats(result.Stats.Schemas, result.Stats.References, result.CacheHit)
		if len(args) > 0 {
			printNextStep("Visualize references", "jsonderef graph "+strings.Join(args, " ")+" -o refs.svg")
		}
	}
	if flags.summary {
		g, err := runner.Graph(ctx, opts)
		if err != nil {
			return err
		}
		printSummary(g, result)
	}
	return nil
}

// outputFormat picks the output format from --format, else from the
// extension of output, else from the config.
func (c *CLI) outputFormat(cmd *cobra.Command, output string) (schemaio.Format, error) {
	name := c.Config.Format
	if output != "" {
		name = string(schemaio.FormatFromPath(output))
	}
	return schemaio.ParseFormat(stringOption(cmd, "format", name))
}

// pipelineOptions merges config and flags into pipeline options.
func (c *CLI) pipelineOptions(cmd *cobra.Command, schemas []any) pipeline.Options {
	return pipeline.Options{
		Schemas:                   schemas,
		MergeAdditionalProperties: boolOption(cmd, "merge-additional-properties", c.Config.MergeAdditionalProperties),
		RemoveIDs:                 boolOption(cmd, "remove-ids", c.Config.RemoveIDs),
		Logger:                    c.Logger,
	}
}

// writeResult writes a single document as itself and several as an array,
// to stdout, one file, or one file per schema.
func writeResult(stdout io.Writer, result *pipeline.Result, format schemaio.Format, output, outDir string) error {
	switch {
	case outDir != "":
		paths, err := schemaio.WriteDir(outDir, result.Schemas, format)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
		return nil
	case output != "":
		if err := schemaio.WriteFile(output, documentOrList(result.Schemas), format); err != nil {
			return err
		}
		printFile(output)
		return nil
	default:
		return schemaio.Write(stdout, documentOrList(result.Schemas), format)
	}
}

func documentOrList(schemas []map[string]any) any {
	if len(schemas) == 1 {
		return schemas[0]
	}
	return schemas
}

// printSummary prints one table row per input schema with its reference
// counts.
func printSummary(g *refgraph.Graph, result *pipeline.Result) {
	rows := make([][]string, 0, len(result.Schemas))
	for _, n := range g.Nodes() {
		if n.Missing {
			continue
		}
		cross := 0
		for _, child := range g.Children(n.URI) {
			cross += g.EdgeCount(n.URI, child)
		}
		rows = append(rows, []string{shorten(n.URI, 60), strconv.Itoa(n.SelfRefs), strconv.Itoa(cross)})
	}
	printNewline()
	printTable(renderTable([]string{"Schema", "Local refs", "Cross refs"}, rows, 1, 2))
	printStats(result.Stats.Schemas, result.Stats.References, result.CacheHit)
}
