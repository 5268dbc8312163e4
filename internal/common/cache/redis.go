package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "lock:"

// RedisConfig holds the configuration for Redis client.
type RedisConfig struct {
	Addr            string        `yaml:"addr"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	MaxRetries      int           `yaml:"maxRetries"`
	MinRetryBackoff time.Duration `yaml:"minRetryBackoff"`
	MaxRetryBackoff time.Duration `yaml:"maxRetryBackoff"`
	DialTimeout     time.Duration `yaml:"dialTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	PoolSize        int           `yaml:"poolSize"`
	MinIdleConns    int           `yaml:"minIdleConns"`
	PoolTimeout     time.Duration `yaml:"poolTimeout"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        20,
		MinIdleConns:    2,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 10 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// RedisCache implements Cache using go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache instance with default config.
func NewRedisCache(addr string) (*RedisCache, error) {
	config := DefaultRedisConfig()
	config.Addr = addr
	return NewRedisCacheWithConfig(config)
}

// NewRedisCacheWithConfig creates a Redis cache instance with custom config.
func NewRedisCacheWithConfig(config *RedisConfig) (*RedisCache, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("addr cannot be empty")
	}

	options := &redis.Options{
		Addr:            config.Addr,
		Password:        config.Password,
		DB:              config.DB,
		MaxRetries:      config.MaxRetries,
		MinRetryBackoff: config.MinRetryBackoff,
		MaxRetryBackoff: config.MaxRetryBackoff,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		PoolSize:        config.PoolSize,
		MinIdleConns:    config.MinIdleConns,
		PoolTimeout:     config.PoolTimeout,
		ConnMaxIdleTime: config.ConnMaxIdleTime,
		ConnMaxLifetime: config.ConnMaxLifetime,
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing go-redis client.
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves the value for the given key.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set stores a key-value pair with optional TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// SetNX sets the value only if the key does not exist.
func (c *RedisCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

// Del deletes one or more keys.
func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Exists checks how many of the given keys exist.
func (c *RedisCache) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.client.Exists(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis exists failed: %w", err)
	}
	return n, nil
}

// Expire sets a timeout on a key.
func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire failed: %w", err)
	}
	return nil
}

// TTL returns the remaining time to live of a key.
func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl failed: %w", err)
	}
	return ttl, nil
}

// Incr increments the integer value of a key by 1.
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr failed: %w", err)
	}
	return n, nil
}

// TryLock attempts to acquire a distributed lock via SETNX.
func (c *RedisCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, lockKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock failed: %w", err)
	}
	return ok, nil
}

// Unlock releases a distributed lock.
func (c *RedisCache) Unlock(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, lockKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis unlock failed: %w", err)
	}
	return nil
}

// Ping verifies the cache connection is alive.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the cache connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
