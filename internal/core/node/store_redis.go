// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package node

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plumeapp/plume/internal/platform/constants"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// TreeCacheTTL bounds how long a built outline may be served without a
// fresh database read. Mutations invalidate eagerly; the TTL only covers
// invalidations lost to Redis failures.
const TreeCacheTTL = 5 * time.Minute

// RedisTreeCache implements [TreeCache] on Redis with JSON-encoded trees.
//
// Cache failures are logged and degrade to misses. The outline endpoint
// must keep working when Redis is down.
type RedisTreeCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewTreeCache constructs the Redis cache for built book outlines.
func NewTreeCache(client *redis.Client, logger *slog.Logger) *RedisTreeCache {
	return &RedisTreeCache{client: client, logger: logger}
}

func treeCacheKey(bookID string) string {
	return constants.RedisPrefixBookTree + bookID
}

func (cache *RedisTreeCache) Get(ctx context.Context, bookID string) ([]*hierarchy.Node[*BookNode], bool) {
	payload, err := cache.client.Get(ctx, treeCacheKey(bookID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("tree_cache_get_failed",
				slog.String("book_id", bookID),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var tree []*hierarchy.Node[*BookNode]
	if err := json.Unmarshal(payload, &tree); err != nil {
		// A corrupt entry is dropped so the next read repopulates it.
		cache.logger.Warn("tree_cache_corrupt_entry", slog.String("book_id", bookID))
		cache.Invalidate(ctx, bookID)
		return nil, false
	}

	return tree, true
}

func (cache *RedisTreeCache) Set(ctx context.Context, bookID string, tree []*hierarchy.Node[*BookNode]) {
	payload, err := json.Marshal(tree)
	if err != nil {
		cache.logger.Warn("tree_cache_encode_failed", slog.String("book_id", bookID))
		return
	}

	if err := cache.client.Set(ctx, treeCacheKey(bookID), payload, TreeCacheTTL).Err(); err != nil {
		cache.logger.Warn("tree_cache_set_failed",
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
	}
}

func (cache *RedisTreeCache) Invalidate(ctx context.Context, bookID string) {
	if err := cache.client.Del(ctx, treeCacheKey(bookID)).Err(); err != nil {
		cache.logger.Warn("tree_cache_invalidate_failed",
			slog.String("book_id", bookID),
			slog.String("error", err.Error()),
		)
	}
}
