package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonderef/pkg/cache"
	"github.com/matzehuels/jsonderef/pkg/deref"
	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/observability"
	"github.com/matzehuels/jsonderef/pkg/refgraph"
)

const (
	keyTypeDeref  = "deref"
	keyTypeLookup = "lookup"
)

// Runner executes dereferencing with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached results. Zero means cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute dereferences opts.Schemas, consulting the cache first unless
// opts.Refresh is set. Cache failures are logged and otherwise ignored.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	inputHash, err := cache.HashDocuments(opts.Schemas)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.DereferenceKey(inputHash, opts.keyOpts())

	if !opts.Refresh {
		var cached Result
		if r.load(ctx, key, keyTypeDeref, &cached) {
			cached.CacheHit = true
			cached.Stats.Duration = time.Since(start)
			r.Logger.Debug("dereference served from cache", "schemas", len(cached.Schemas))
			return &cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnDereferenceStart(ctx, len(opts.Schemas))
	derefStart := time.Now()
	d, err := deref.New(opts.Schemas, opts.derefOptions())
	var schemas []map[string]any
	if err == nil {
		schemas, err = d.Dereference()
	}
	var stats deref.Stats
	if d != nil {
		stats = d.Stats()
	}
	observability.Pipeline().OnDereferenceComplete(ctx, len(opts.Schemas), stats.References, time.Since(derefStart), err)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Schemas: schemas,
		Stats: Stats{
			Schemas:    stats.Schemas,
			References: stats.References,
			Locations:  stats.Locations,
		},
	}
	r.store(ctx, key, keyTypeDeref, result)

	result.Stats.Duration = time.Since(start)
	r.Logger.Info("dereferenced schemas",
		"schemas", stats.Schemas,
		"references", stats.References,
		"duration", result.Stats.Duration)
	return result, nil
}

// Lookup returns the dereferenced value at location within opts.Schemas.
// Only the documents the location depends on are resolved.
func (r *Runner) Lookup(ctx context.Context, opts Options, location string) (*LookupResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	canonical, err := jsonref.Normalize(location)
	if err != nil {
		return nil, err
	}
	inputHash, err := cache.HashDocuments(opts.Schemas)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.LookupKey(inputHash, canonical, opts.keyOpts())

	if !opts.Refresh {
		var cached LookupResult
		if r.load(ctx, key, keyTypeLookup, &cached) {
			cached.CacheHit = true
			return &cached, nil
		}
	}

	start := time.Now()
	d, err := deref.New(opts.Schemas, opts.derefOptions())
	var value any
	if err == nil {
		value, err = d.Lookup(canonical)
	}
	observability.Pipeline().OnLookup(ctx, canonical, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result := &LookupResult{Location: canonical, Value: value}
	r.store(ctx, key, keyTypeLookup, result)
	return result, nil
}

// Graph builds the reference graph of opts.Schemas. Graphs are cheap to
// build and are not cached.
func (r *Runner) Graph(ctx context.Context, opts Options) (*refgraph.Graph, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return refgraph.Build(opts.Schemas)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) load(ctx context.Context, key, keyType string, into any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cannot encode result for cache", "err", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
