package redis

import (
	"context"
	"errors"
	"time"

	"unitcom_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// errNotReady surfaces when an operation runs before Init. Callers treat
// cache errors as degradation, so an unconfigured Redis just disables
// caching.
var errNotReady = errorx.New(errorx.CodeCacheError, "redis not initialised")

// SetKeyEx sets a key with an expiry.
func SetKeyEx(ctx context.Context, key string, value string, timeout time.Duration) error {
	if redisClient == nil {
		return errNotReady
	}
	if err := redisClient.Set(ctx, key, value, timeout).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// GetKey returns the value for key, or empty string when the key does not
// exist (a miss is not an error).
func GetKey(ctx context.Context, key string) (string, error) {
	if redisClient == nil {
		return "", errNotReady
	}
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// DelKey removes a key.
func DelKey(ctx context.Context, key string) error {
	if redisClient == nil {
		return errNotReady
	}
	if err := redisClient.Del(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis del key %s", key)
	}
	return nil
}

// DelKeysWithPattern removes every key matching pattern, scanning in
// batches so Redis is never blocked the way KEYS would.
func DelKeysWithPattern(ctx context.Context, pattern string) error {
	if redisClient == nil {
		return errNotReady
	}
	var cursor uint64
	for {
		keys, next, err := redisClient.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
		}
		if len(keys) > 0 {
			if err := redisClient.Del(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis del pattern %s", pattern)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
