package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries as plain Redis strings with native expiry.
type RedisCache struct {
	rdb   *redis.Client
	owned bool
}

// NewRedisCache connects to url (redis://[:password@]host:port/db) and
// pings the server.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, wrap("open", "redis", err)
	}
	rdb := redis.NewClient(opts)
	err = RetryWithBackoff(ctx, func() error {
		return classify(rdb.Ping(ctx).Err())
	})
	if err != nil {
		_ = rdb.Close()
		return nil, wrap("ping", "redis", err)
	}
	return &RedisCache{rdb: rdb, owned: true}, nil
}

// NewRedisCacheFromClient uses an existing client. Close leaves it open.
func NewRedisCacheFromClient(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.rdb.Get(ctx, key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("get", "redis", err)
	}
	return data, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.rdb.Set(ctx, key, data, ttl).Err())
	})
	return wrap("set", "redis", err)
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.rdb.Del(ctx, key).Err())
	})
	return wrap("delete", "redis", err)
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.rdb.Close()
}

// classify marks network failures as retryable.
func classify(err error) error {
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
