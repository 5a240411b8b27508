package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/stockade-io/stockade/pkg/storage"
)

// blacklistKeyPrefix namespaces revocation entries so the blacklist can
// share a redis database with other key kinds.
const blacklistKeyPrefix = "revoked:"

// RedisClient is the blacklist cache client. It satisfies auth.Blacklist.
type RedisClient struct {
	client *redis.Client
	config storage.Config
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(config storage.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if config.RedisPassword != "" {
		opts.Password = config.RedisPassword
	}
	if config.RedisDB >= 0 {
		opts.DB = config.RedisDB
	}
	if config.RedisMaxRetries > 0 {
		opts.MaxRetries = config.RedisMaxRetries
	}
	if config.RedisPoolSize > 0 {
		opts.PoolSize = config.RedisPoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, config: config}, nil
}

// Put records a revoked token for at least ttl. A non-positive ttl falls
// back to the configured blacklist default.
func (c *RedisClient) Put(ctx context.Context, token, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.BlacklistTTL
	}
	if err := c.client.Set(ctx, blacklistKeyPrefix+token, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get reports whether the exact token string has been revoked.
func (c *RedisClient) Get(ctx context.Context, token string) (string, bool, error) {
	value, err := c.client.Get(ctx, blacklistKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return value, true, nil
}

// Ping checks redis connectivity, for health probes.
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// PoolStats returns connection pool statistics.
func (c *RedisClient) PoolStats() *redis.PoolStats {
	return c.client.PoolStats()
}
