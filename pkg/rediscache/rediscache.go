// Package rediscache wraps a long-lived Redis client used as the identity
// cache. The handle is opened once at process start and closed at shutdown.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache is a thin key-value view over Redis: get, set-with-TTL, delete.
type Cache struct {
	rdb *redis.Client
}

// New creates a new Cache. The connection is verified lazily; call Ping to
// check it eagerly.
func New(cfg Config) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{rdb: rdb}
}

// Ping verifies the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get returns the value for key, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q failed: %w", key, err)
	}
	return b, nil
}

// Set stores the value under key. ttlSeconds > 0 bounds the entry's life;
// zero means no expiry.
func (c *Cache) Set(ctx context.Context, key string, val []byte, ttlSeconds int) error {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q failed: %w", key, err)
	}
	return nil
}

// Del removes a key. Deleting an absent key is not an error.
func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q failed: %w", key, err)
	}
	return nil
}
