package health

import (
	"context"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// RedisChecker pings the Redis instance backing the task queue.
type RedisChecker struct {
	client *redis.Client
}

var _ port.HealthChecker = (*RedisChecker)(nil)

func NewRedisChecker(addr, password string) *RedisChecker {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisChecker{client: rdb}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *RedisChecker) Close() error {
	return c.client.Close()
}
