package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces every storage group in a shared Redis database.
const RedisKeyPrefix = "wordwidget:"

// RedisBackend stores one storage group under a key prefix in Redis.
type RedisBackend struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewRedisBackend uses an existing client. The caller keeps ownership of it.
func NewRedisBackend(client *redis.Client, group string) (*RedisBackend, error) {
	if err := ValidateGroup(group); err != nil {
		return nil, err
	}
	return &RedisBackend{client: client, prefix: RedisKeyPrefix + group + ":"}, nil
}

// OpenRedis connects to the Redis server at url and checks it is reachable.
func OpenRedis(ctx context.Context, url, group string) (*RedisBackend, error) {
	if err := ValidateGroup(group); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	backend, err := NewRedisBackend(client, group)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	backend.owned = true
	return backend, nil
}

// Client returns the underlying Redis client.
func (b *RedisBackend) Client() *redis.Client {
	return b.client
}

// Key returns the full Redis key for a store key.
func (b *RedisBackend) Key(key string) string {
	return b.prefix + key
}

// Close closes the client when the backend opened it.
func (b *RedisBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, b.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements Backend. Values never expire.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, b.Key(key), value, 0).Err()
}
