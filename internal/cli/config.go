package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonderef/internal/server"
	"github.com/matzehuels/jsonderef/pkg/cache"
	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/schemaio"
)

// localConfigFile is looked up in the working directory.
const localConfigFile = ".jsonderef.toml"

// Config is the contents of the TOML config file. Command-line flags take
// precedence over every field.
type Config struct {
	MergeAdditionalProperties bool   `toml:"merge_additional_properties"`
	RemoveIDs                 bool   `toml:"remove_ids"`
	Format                    string `toml:"format"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	TTL           string `toml:"ttl"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig is the [server] table.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Format: string(schemaio.JSON),
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     cache.DefaultTTL.String(),
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// loadConfig reads the config file at path, or the first one found in the
// default locations when path is empty. It returns the path actually read,
// or "" when no file exists.
func loadConfig(path string) (*Config, string, error) {
	cfg := defaultConfig()
	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, "", fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

func findConfig() string {
	candidates := []string{localConfigFile}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) validate() error {
	if _, err := schemaio.ParseFormat(c.Format); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cache ttl %q", c.Cache.TTL)
		}
	}
	return nil
}

// ttl returns the configured TTL; validate has already checked it parses.
func (c CacheConfig) ttl() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return cache.DefaultTTL
	}
	return d
}

func (c CacheConfig) cacheConfig() cache.Config {
	return cache.Config{
		Backend:       c.Backend,
		Dir:           c.Dir,
		RedisURL:      c.RedisURL,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
	}
}

// =============================================================================
// Flag Overrides
// =============================================================================

// boolOption returns the flag's value when it was set explicitly, and
// fallback otherwise.
func boolOption(cmd *cobra.Command, name string, fallback bool) bool {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback
	}
	return v
}

// stringOption is boolOption for string flags.
func stringOption(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fallback
	}
	return v
}
