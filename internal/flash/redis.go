package flash

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"taskboard/pkg/logger"
)

const keyPrefix = "flash:"

// RedisStore keeps flash messages in Redis so any replica can render them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(ctx context.Context, url string, poolSize int, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", opts.PoolSize)
	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping implements backend.Pinger.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Set writes the message with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, msg Message) error {
	b, err := encode(msg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, b, s.ttl).Err()
}

// Pop reads and deletes the message atomically. Returns false on miss or error.
func (s *RedisStore) Pop(ctx context.Context, key string) (Message, bool) {
	b, err := s.client.GetDel(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return Message{}, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis pop flash failed", "error", err)
		return Message{}, false
	}
	msg, err := decode(b)
	if err != nil {
		logger.Debug(ctx, "Redis unmarshal flash failed", "error", err)
		return Message{}, false
	}
	return msg, true
}
