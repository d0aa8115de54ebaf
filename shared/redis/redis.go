package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sentiment-chat-demo/backend/pkg/config"
)

// Client wraps go-redis for the small key/value surface the application
// needs. A nil *Client is valid and behaves as a disabled cache.
type Client struct {
	client *redis.Client
}

// NewClient builds a client from configuration. Returns nil when no Redis
// address is configured, which downstream callers treat as "no cache".
func NewClient() *Client {
	cfg := config.Get()
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &Client{client: client}
}

func (r *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if r == nil {
		return redis.Nil
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *Client) Get(ctx context.Context, key string) (string, error) {
	if r == nil {
		return "", redis.Nil
	}
	return r.client.Get(ctx, key).Result()
}

func (r *Client) Del(ctx context.Context, key string) error {
	if r == nil {
		return nil
	}
	return r.client.Del(ctx, key).Err()
}

// Ping checks connectivity, used by the health checker.
func (r *Client) Ping(ctx context.Context) error {
	if r == nil {
		return redis.Nil
	}
	return r.client.Ping(ctx).Err()
}

// IsCacheMiss reports whether err is a plain cache miss rather than a real
// Redis failure.
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
