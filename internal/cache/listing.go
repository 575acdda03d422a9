// Package cache is the view-layer caching for task listings: GET responses
// are kept in Redis under a versioned key, and every successful mutation
// bumps the version so stale pages are never served. The task core itself
// stays cache-free; this sits entirely at the HTTP boundary.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	versionKey = "tasks:ver"
	listPrefix = "tasks:list:"
	listTTL    = 5 * time.Minute
)

// ListingCache is a cache-aside wrapper around the task listing call.
// With a nil Redis client every lookup falls through to the loader, so the
// server stays fully functional without Redis.
type ListingCache struct {
	client *redis.Client
	sf     singleflight.Group
}

func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

// Loader produces a fresh listing when the cache has nothing to offer.
type Loader func(ctx context.Context) (*domain.ListResult, error)

// GetOrLoad returns the cached listing for the given normalized options, or
// runs the loader and caches its result. Concurrent misses for the same key
// collapse into a single loader call.
func (c *ListingCache) GetOrLoad(ctx context.Context, opts domain.ListOptions, load Loader) (*domain.ListResult, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	key := c.listKey(ctx, opts)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var res domain.ListResult
		if err := json.Unmarshal(data, &res); err == nil {
			cacheHits.Inc()
			return &res, nil
		}
	} else if err != redis.Nil {
		logger.Warn("listing cache read failed", "error", err)
		return load(ctx)
	}

	cacheMisses.Inc()
	v, err, _ := c.sf.Do(key, func() (any, error) {
		res, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(res); err == nil {
			if err := c.client.Set(ctx, key, data, listTTL).Err(); err != nil {
				logger.Warn("listing cache write failed", "error", err)
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ListResult), nil
}

// Invalidate bumps the listing version. Old keys expire on their own.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		logger.Warn("listing cache invalidation failed", "error", err)
		return
	}
	invalidations.Inc()
}

func (c *ListingCache) listKey(ctx context.Context, opts domain.ListOptions) string {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		ver = 0
	}
	return fmt.Sprintf("%sv%d:%s:%s:%s:%d:%d",
		listPrefix, ver,
		opts.StatusFilter, opts.SortBy, opts.SortOrder, opts.Limit, opts.Offset)
}
