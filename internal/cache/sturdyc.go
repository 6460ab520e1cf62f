package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// sturdyc evicts this share of a full shard at once.
const sturdycEvictionPercentage = 10

// SturdycStore is a Store backed by a sharded sturdyc client.
// sturdyc applies one TTL to every entry, fixed when the store is built.
type SturdycStore struct {
	client *sturdyc.Client[[]byte]
	ttl    time.Duration
}

// NewSturdycStore builds a sturdyc-backed store. Extra options are passed to
// sturdyc unchanged; tests use them to inject a clock.
func NewSturdycStore(cfg Config, opts ...sturdyc.Option) *SturdycStore {
	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		sturdycEvictionPercentage,
		opts...,
	)
	return &SturdycStore{client: client, ttl: cfg.TTL}
}

func (s *SturdycStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set stores value under key. The ttl argument is ignored in favour of the
// client TTL, which the service configures from the same setting.
func (s *SturdycStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

func (s *SturdycStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// TTL reports the lifetime applied to every entry.
func (s *SturdycStore) TTL() time.Duration {
	return s.ttl
}

func (s *SturdycStore) Close() error {
	return nil
}
