// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package tmdb

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/cache"
)

// CachePolicy decides whether a path may be served from cache.
type CachePolicy func(path string) bool

// CacheDetails caches everything except the collections the catalog
// store refreshes on its own schedule (trending and now playing), so a
// reload always sees a fresh ranking while per-title lookups are reused.
func CacheDetails(path string) bool {
	return !strings.HasPrefix(path, "/trending/") && path != "/movie/now_playing"
}

// CachingClient memoizes successful responses as encoded JSON. Failures
// are never cached.
type CachingClient struct {
	next   Fetcher
	cache  *cache.Cache[[]byte]
	policy CachePolicy
}

var _ Fetcher = (*CachingClient)(nil)

// NewCachingClient wraps next with a TTL cache. A nil policy caches all paths.
func NewCachingClient(next Fetcher, ttl time.Duration, policy CachePolicy) *CachingClient {
	if policy == nil {
		policy = func(string) bool { return true }
	}
	return &CachingClient{
		next:   next,
		cache:  cache.New[[]byte]("tmdb", ttl, ttl),
		policy: policy,
	}
}

// Fetch implements Fetcher.
func (c *CachingClient) Fetch(ctx context.Context, path string, query url.Values, out any) error {
	if !c.policy(path) {
		return c.next.Fetch(ctx, path, query, out)
	}

	key := cache.GenerateKey("tmdb", path+"?"+query.Encode())
	if raw, ok := c.cache.Get(key); ok {
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
		c.cache.Delete(key)
	}

	if err := c.next.Fetch(ctx, path, query, out); err != nil {
		return err
	}
	if raw, err := json.Marshal(out); err == nil {
		c.cache.Set(key, raw)
	}
	return nil
}

// Purge drops every cached response.
func (c *CachingClient) Purge() {
	c.cache.Clear()
}

// HitRate is the percentage of lookups served from cache.
func (c *CachingClient) HitRate() float64 {
	return c.cache.HitRate()
}

// Close stops the cache cleanup goroutine.
func (c *CachingClient) Close() {
	c.cache.Close()
}
