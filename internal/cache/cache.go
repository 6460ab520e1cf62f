// Package cache provides the read-through cache used in front of the book store.
//
// Entries are opaque byte payloads that expire a fixed time after they were
// written. Reads never extend an entry's lifetime and writes elsewhere in the
// service never invalidate entries; stale data lives until its TTL passes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a TTL-based key-value cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendSturdyc  = "sturdyc"
	BackendTTLCache = "ttlcache"
)

// Config selects and sizes a cache backend.
type Config struct {
	Backend   string
	TTL       time.Duration
	Capacity  int
	NumShards int
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSturdyc, BackendTTLCache:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if c.TTL <= 0 {
		return errors.New("cache TTL must be greater than 0")
	}
	if c.Capacity <= 0 {
		return errors.New("cache capacity must be greater than 0")
	}
	if c.Backend == BackendSturdyc && c.NumShards <= 0 {
		return errors.New("cache shards must be greater than 0")
	}
	return nil
}

// New constructs the backend named in cfg.
func New(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendTTLCache {
		return NewTTLStore(cfg), nil
	}
	return NewSturdycStore(cfg), nil
}
