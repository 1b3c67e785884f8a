package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
	"github.com/cofundable/cofundable/internal/usecase"
)

// Cache implements usecase.Cache using Redis.
type Cache struct {
	client  redis.UniversalClient
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache. m may be nil.
func NewCache(client redis.UniversalClient, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  "cofundable:cache:",
		metrics: m,
	}
}

// Get retrieves a value by key. An absent key yields usecase.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		c.observe("get", "miss")
		return "", usecase.ErrCacheMiss
	case err != nil:
		c.observe("get", "error")
		return "", err
	}

	c.observe("get", "hit")
	return val, nil
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	c.observe("set", result(err))
	return err
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.prefix+key).Err()
	c.observe("delete", result(err))
	return err
}

func (c *Cache) observe(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.RedisOperations.WithLabelValues(operation, outcome).Inc()
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
