// Package cache stores dereferencing results so repeated runs over the same
// schema set can skip the work.
//
// # Backends
//
// [Cache] is a byte-oriented key/value store with TTLs. Four backends ship:
//
//   - [FileCache]: one file per entry under a directory, for CLI use
//   - [RedisCache]: a shared Redis instance, for servers
//   - [MongoCache]: a MongoDB collection with a TTL index, for servers
//   - [NullCache]: stores nothing, used when caching is disabled
//
// [Open] picks a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes the canonical JSON of the
// input documents together with every option that changes the output, so
// the same schemas with different options never share an entry.
// [ScopedKeyer] prefixes keys to keep tenants apart on a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for encoded results.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// DereferenceKey is the key of a full dereferencing result.
	DereferenceKey(inputHash string, opts DereferenceKeyOpts) string

	// LookupKey is the key of a single dereferenced location.
	LookupKey(inputHash, location string, opts DereferenceKeyOpts) string
}

// DereferenceKeyOpts lists the options that change a result.
type DereferenceKeyOpts struct {
	MergeAdditionalProperties bool `json:"merge_additional_properties"`
	RemoveIDs                 bool `json:"remove_ids"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DereferenceKey returns "deref:<sha256>".
func (DefaultKeyer) DereferenceKey(inputHash string, opts DereferenceKeyOpts) string {
	return hashKey("deref", inputHash, opts)
}

// LookupKey returns "lookup:<sha256>".
func (DefaultKeyer) LookupKey(inputHash, location string, opts DereferenceKeyOpts) string {
	return hashKey("lookup", inputHash, location, opts)
}

var _ Keyer = DefaultKeyer{}
