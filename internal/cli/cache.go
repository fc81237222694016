package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/pkg/cache"
	"github.com/matzehuels/jsonderef/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
		Long: `Manage the result cache.

Dereferenced results are cached by a hash of the input documents and the
options that affect the output. The backend is chosen in the [cache] table of
the config file: file (default), redis, mongo or none.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", c.backendName())
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where results are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			switch c.backendName() {
			case cache.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.RedisURL)
			case cache.BackendMongo:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.MongoURI)
			case cache.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir := cfg.Dir
				if dir == "" {
					d, err := cacheDir()
					if err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
					dir = d
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

func (c *CLI) backendName() string {
	if c.Config.Cache.Backend == "" {
		return cache.BackendFile
	}
	return c.Config.Cache.Backend
}
