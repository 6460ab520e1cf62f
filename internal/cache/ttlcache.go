package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// TTLStore is a Store backed by jellydator/ttlcache with per-entry TTLs.
type TTLStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewTTLStore starts a ttlcache instance with its expiry loop running.
// Call Close to stop it.
func NewTTLStore(cfg Config) *TTLStore {
	c := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](cfg.TTL),
		ttlcache.WithCapacity[string, []byte](uint64(cfg.Capacity)),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go c.Start()
	return &TTLStore{cache: c}
}

func (s *TTLStore) Get(_ context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return nil, ErrNotFound
	}
	return item.Value(), nil
}

func (s *TTLStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *TTLStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *TTLStore) Close() error {
	s.cache.Stop()
	return nil
}
