package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonderef/pkg/cache"
	"github.com/matzehuels/jsonderef/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
remove_ids = true
format = "yaml"

[cache]
backend = "redis"
ttl = "1h"
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9090"
`)

	cfg, got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	want := &Config{
		RemoveIDs: true,
		Format:    "yaml",
		Cache: CacheConfig{
			Backend:  cache.BackendRedis,
			TTL:      "1h",
			RedisURL: "redis://localhost:6379/0",
		},
		Server: ServerConfig{Addr: ":9090"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if ttl := cfg.Cache.ttl(); ttl != time.Hour {
		t.Errorf("ttl() = %v, want 1h", ttl)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.ttl() != cache.DefaultTTL {
		t.Errorf("default ttl = %v", cfg.Cache.ttl())
	}
}

func TestLoadConfigSearchOrder(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	work := t.TempDir()
	t.Chdir(work)

	writeFile(t, filepath.Join(xdg, appName, "config.toml"), `format = "yaml"`)
	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Format != "yaml" || path != filepath.Join(xdg, appName, "config.toml") {
		t.Errorf("user config not used: format %q, path %q", cfg.Format, path)
	}

	writeFile(t, filepath.Join(work, localConfigFile), `remove_ids = true`)
	cfg, path, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if !cfg.RemoveIDs || cfg.Format != "json" || path != localConfigFile {
		t.Errorf("local config not preferred: %+v from %q", cfg, path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    errors.Code
	}{
		{"syntax", `format = `, errors.ErrCodeInvalidInput},
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidInput},
		{"format", `format = "xml"`, errors.ErrCodeInvalidFormat},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.content)
			if _, _, err := loadConfig(path); !errors.Is(err, tt.want) {
				t.Errorf("loadConfig error = %v, want %s", err, tt.want)
			}
		})
	}

	_, _, err := loadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewRunnerTTL(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.TTL = "90m"

	r, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner error: %v", err)
	}
	defer r.Close()
	if r.TTL != 90*time.Minute {
		t.Errorf("runner TTL = %v, want 1h30m", r.TTL)
	}
}
