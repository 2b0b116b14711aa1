package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// NewFromURL parses a redis:// URL and returns a cache over a new client.
func NewFromURL(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewCache(redis.NewClient(opts), ttl), nil
}

func buildKey(userID int64, shape domain.ResponseShape) string {
	return fmt.Sprintf("rec:user:%d:shape:%s", userID, shape)
}

// Get a rendered response body from cache
func (c *Cache) Get(ctx context.Context, userID int64, shape domain.ResponseShape) ([]byte, bool, error) {
	key := buildKey(userID, shape)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}
	return val, true, nil
}

// Store a rendered response body in cache
func (c *Cache) Set(ctx context.Context, userID int64, shape domain.ResponseShape, body []byte) error {
	key := buildKey(userID, shape)
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
