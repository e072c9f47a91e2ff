package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/callready/scriptd/common/config"
	"github.com/callready/scriptd/common/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed cache implementation
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache connects to Redis and returns a cache backed by it
func NewRedisCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("redis connected", "addr", cfg.Addr, "db", cfg.DB)

	return &RedisCache{
		client: client,
		log:    log,
	}, nil
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.log.Error("redis GET failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("get key %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores a value in cache with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Error("redis SET failed", "key", key, "error", err)
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a value from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("redis DEL failed", "key", key, "error", err)
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis connection
func (c *RedisCache) Close() error {
	c.log.Info("closing redis connection")
	return c.client.Close()
}
