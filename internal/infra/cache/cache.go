package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
)

// Cache is a generic TTL cache used for read-through caching of upstream
// lookups.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	Delete(ctx context.Context, key string)
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error)
}

type Config struct {
	MaxCost     int64
	NumCounters int64
	BufferItems int64
}

func DefaultConfig() *Config {
	return &Config{
		MaxCost:     1 << 26, // 64MB
		NumCounters: 1e6,
		BufferItems: 64,
	}
}

// RistrettoCache is the in-process Cache implementation.
type RistrettoCache struct {
	store       *ristretto.Cache
	singleGroup singleflight.Group
}

var _ Cache = (*RistrettoCache)(nil)

func New(config *Config) (*RistrettoCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	cache := &RistrettoCache{store: store}
	cache.store.Wait()

	return cache, nil
}

func (c *RistrettoCache) Get(ctx context.Context, key string) (any, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	default:
	}
	return c.store.Get(key)
}

func (c *RistrettoCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}
	return c.store.SetWithTTL(key, value, 1, ttl)
}

func (c *RistrettoCache) Delete(ctx context.Context, key string) {
	c.store.Del(key)
}

// GetOrSet loads the value on a miss, collapsing concurrent loads of the same
// key through singleflight.
func (c *RistrettoCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	if value, found := c.Get(ctx, key); found {
		return value, nil
	}

	value, err, _ := c.singleGroup.Do(key, func() (any, error) {
		if value, found := c.Get(ctx, key); found {
			return value, nil
		}

		value, err := loader()
		if err != nil {
			return nil, err
		}

		c.Set(ctx, key, value, ttl)
		return value, nil
	})

	return value, err
}
