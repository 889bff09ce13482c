// Package cache provides a caching layer for catalog API responses.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the interface for caching catalog responses.
type Cache interface {
	// Get retrieves data from the cache by key.
	// Returns the data and true if found and not expired, otherwise nil and false.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores data in the cache with the given key and TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close closes the cache and releases resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend       string
	Size          int
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
}

// Open builds the configured backend. A nil Cache with a nil error means
// caching is disabled.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		c, err := NewMemoryCache(opts.Size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendSQLite:
		c, err := NewSQLiteCache(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
