// Package pipeline runs dereferencing with caching, shared by the CLI and
// the HTTP server.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Schemas: docs})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.CacheHit, result.Stats.References)
//
// Results are cached under a key built from the canonical JSON of the input
// documents and every option that affects the output. A cached result is
// returned as decoded JSON, so numbers come back as float64.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonderef/pkg/cache"
	"github.com/matzehuels/jsonderef/pkg/deref"
	"github.com/matzehuels/jsonderef/pkg/errors"
)

// Options configures one pipeline run. It doubles as the options object of
// the HTTP API.
type Options struct {
	// Schemas are the input documents. Not serialized: the API carries them
	// next to the options.
	Schemas []any `json:"-"`

	MergeAdditionalProperties bool `json:"merge_additional_properties,omitempty"`
	RemoveIDs                 bool `json:"remove_ids,omitempty"`

	// Refresh skips the cache lookup; the fresh result still overwrites the
	// cached one.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks that the options describe a runnable job.
func (o Options) Validate() error {
	if len(o.Schemas) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no schemas given")
	}
	return nil
}

func (o Options) derefOptions() deref.Options {
	return deref.Options{
		MergeAdditionalProperties: o.MergeAdditionalProperties,
		RemoveIDs:                 o.RemoveIDs,
		Logger:                    o.Logger,
	}
}

func (o Options) keyOpts() cache.DereferenceKeyOpts {
	return cache.DereferenceKeyOpts{
		MergeAdditionalProperties: o.MergeAdditionalProperties,
		RemoveIDs:                 o.RemoveIDs,
	}
}

// Result is the output of Execute.
type Result struct {
	// Schemas are the dereferenced documents in input order.
	Schemas []map[string]any `json:"schemas"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats describes a run. Duration covers the whole Execute call, including
// cache access.
type Stats struct {
	Schemas    int           `json:"schemas"`
	References int           `json:"references"`
	Locations  int           `json:"locations"`
	Duration   time.Duration `json:"duration"`
}

// LookupResult is the output of Lookup.
type LookupResult struct {
	Location string `json:"location"`
	Value    any    `json:"value"`
	CacheHit bool   `json:"cache_hit"`
}
