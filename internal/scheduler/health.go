package scheduler

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisHealth pings the task broker for the API health endpoint.
type RedisHealth struct {
	client *redis.Client
}

func NewRedisHealth(redisURL string) (*RedisHealth, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisHealth{client: redis.NewClient(opt)}, nil
}

func (h *RedisHealth) Name() string { return "redis" }

func (h *RedisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

func (h *RedisHealth) Close() error {
	return h.client.Close()
}
