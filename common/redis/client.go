package redis

import (
	"context"

	"github.com/thependalorian/buffrhost-sub014/common/config"

	"github.com/go-redis/redis/v8"
)

// Client is an alias so callers need not import go-redis directly.
type Client = redis.Client

// NewRedisClient creates a client from cfg. It does not dial.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the client.
func Close(client *redis.Client) error {
	return client.Close()
}
