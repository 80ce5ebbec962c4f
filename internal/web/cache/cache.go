// Package cache stores rendered documents keyed by the request that
// produced them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/conduit-lang/jsonres/internal/cli/config"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. A zero TTL uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values stored under the backend prefix
	Clear(ctx context.Context) error

	// Close releases the backend's resources
	Close() error
}

// Options holds settings shared by the backends
type Options struct {
	// DefaultTTL applies when Set is called with a zero TTL
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		DefaultTTL: time.Minute,
		Prefix:     "jsonres:",
	}
}

// ErrUnknownBackend is returned by New for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown cache backend")

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	var miss ErrCacheMiss
	return errors.As(err, &miss)
}

// New opens the backend named in cfg. The "none" backend returns a nil
// Cache, which callers treat as caching disabled.
func New(cfg config.CacheConfig) (Cache, error) {
	opts := DefaultOptions()
	if cfg.TTL > 0 {
		opts.DefaultTTL = cfg.TTL
	}

	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(opts), nil
	case "redis":
		c, err := NewRedisCache(RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Options:  opts,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
