// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// query.go caches list reads keyed by collection. Nothing is invalidated
// implicitly: every mutation hands back the keys it dirtied and the caller
// drops them with Invalidate.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// queryKeyPrefix is the Valkey key prefix for cached query results.
	queryKeyPrefix = "query:"

	// DefaultQueryTTL bounds how stale a snapshot can get if an
	// invalidation is lost.
	DefaultQueryTTL = 2 * time.Minute
)

// QueryKey returns the cache key for a collection's list snapshot.
func QueryKey(collection string) string {
	return queryKeyPrefix + collection
}

// QueryCache stores JSON-encoded query results in Valkey.
type QueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQueryCache creates a query cache backed by the given Valkey client.
func NewQueryCache(client *redis.Client, ttl time.Duration) *QueryCache {
	if ttl == 0 {
		ttl = DefaultQueryTTL
	}
	return &QueryCache{client: client, ttl: ttl}
}

// Get decodes the snapshot stored under key into dst. Returns false on a
// miss or on any error; cache failures never fail a request.
func (qc *QueryCache) Get(ctx context.Context, key string, dst any) bool {
	val, err := qc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("query cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("query cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("query cache hit", "key", key)
	return true
}

// Set stores v under key with the configured TTL.
func (qc *QueryCache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("query cache encode error", "key", key, "error", err)
		return
	}
	if err := qc.client.Set(ctx, key, data, qc.ttl).Err(); err != nil {
		slog.Warn("query cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (qc *QueryCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := qc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("query cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("query cache invalidated", "keys", keys)
}

// InvalidateAll removes every cached query by scanning for the prefix.
func (qc *QueryCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := qc.client.Scan(ctx, cursor, queryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("query cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := qc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("query cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("query cache fully cleared", "deleted", deleted)
	}
}
