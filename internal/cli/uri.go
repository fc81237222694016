package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/schemaio"
)

// uriCommand groups the schema URI helpers.
func (c *CLI) uriCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uri",
		Short: "Normalize, validate and resolve schema URIs",
	}
	cmd.AddCommand(c.uriNormalizeCommand())
	cmd.AddCommand(c.uriValidateCommand())
	cmd.AddCommand(c.uriResolveCommand())
	return cmd
}

func (c *CLI) uriNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <uri>...",
		Short: "Print the canonical form of each URI",
		Example: `  $ jsonderef uri normalize 'HTTP://Example.com:80/%7Ea/b.json'
  http://example.com/~a/b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := jsonref.Normalize(arg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (c *CLI) uriValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <uri>...",
		Short: "Check that each URI can serve as a schema $id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if err := jsonref.ValidateSchemaURI(arg); err != nil {
					return err
				}
				printSuccess("%s", arg)
			}
			return nil
		},
	}
}

func (c *CLI) uriResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <base> <ref>",
		Short: "Resolve a $ref against the $id of its schema",
		Example: `  $ jsonderef uri resolve http://example.com/a/b.json ../c.json#/x
  http://example.com/c.json#/x`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := jsonref.Resolve(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// pointerCommand groups the JSON Pointer helpers.
func (c *CLI) pointerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pointer",
		Short: "Split and build JSON Pointer locations",
	}
	cmd.AddCommand(c.pointerSplitCommand())
	cmd.AddCommand(c.pointerAppendCommand())
	return cmd
}

// pointerSplit is the output of "pointer split".
type pointerSplit struct {
	Schema   string   `json:"schema"`
	Segments []string `json:"segments"`
}

func (c *CLI) pointerSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <location>",
		Short: "Print the schema URI and unescaped pointer segments of a location",
		Example: `  $ jsonderef pointer split 'a.json#/definitions/a~1b'
  {
    "schema": "a.json",
    "segments": [
      "definitions",
      "a/b"
    ]
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, segments, err := jsonref.Split(args[0])
			if err != nil {
				return err
			}
			if segments == nil {
				segments = []string{}
			}
			return schemaio.Write(cmd.OutOrStdout(), pointerSplit{Schema: schema, Segments: segments}, schemaio.JSON)
		},
	}
}

func (c *CLI) pointerAppendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "append <location> <segment>...",
		Short: "Append escaped segments to the pointer of a location",
		Example: `  $ jsonderef pointer append a.json#/definitions a/b
  a.json#/definitions/a~1b`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := args[0]
			for _, segment := range args[1:] {
				loc = jsonref.AppendPointer(loc, segment)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}
