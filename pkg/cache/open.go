package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// DefaultTTL is how long results are kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	RedisURL      string
	MongoURI      string
	MongoDatabase string
}

// Open returns the backend named by cfg.Backend. An empty backend means
// file; an empty Dir means DefaultDir.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("locate cache dir: %w", err)
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache backend redis needs redis_url")
		}
		c, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("cache backend mongo needs mongo_uri")
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = "jsonderef"
		}
		c, err := DialMongo(ctx, cfg.MongoURI, db)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, redis, mongo or none)", cfg.Backend)
	}
}
