package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisCache is the shared Cache implementation for multi-replica
// deployments. Values are stored as JSON.
type RedisCache struct {
	client      *redis.Client
	singleGroup singleflight.Group
}

var _ Cache = (*RedisCache)(nil)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCache(config RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (any, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("redis value decode failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}

	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("redis value encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("redis set failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return true
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("redis delete failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *RedisCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error) {
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

func (c *RedisCache) Close() error {
	return c.client.Close()
}
