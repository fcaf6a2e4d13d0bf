package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: return the cached value under
// key when present, otherwise call fetch and store its result with the
// given TTL. Cache failures fall through to fetch; a nil client means
// every call goes straight to fetch.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			var cached T
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
			// Corrupt entry, drop it and refetch.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Redis unavailable, serve from source.
			return fetch(ctx)
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(value); jsonErr == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}

	return value, nil
}
