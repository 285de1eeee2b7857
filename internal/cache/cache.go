// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package cache provides a thread-safe in-memory TTL cache.
//
// The metadata client uses it to avoid re-fetching show details, seasons
// and provider listings that change far slower than the catalog refresh
// interval. Hits, misses and size are exported as Prometheus metrics
// under the cache's name.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/metrics"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a point-in-time copy of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Entries     int
	LastCleanup time.Time
}

// Cache is a TTL cache keyed by string.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[V]
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts a cleanup goroutine that runs every
// cleanupEvery until Close is called. A zero cleanupEvery disables the
// goroutine; expired entries are still dropped lazily on Get.
func New[V any](name string, ttl, cleanupEvery time.Duration) *Cache[V] {
	c := &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go c.cleanupLoop(cleanupEvery)
	}
	return c
}

// Get returns the cached value and true, or the zero value and false when
// the key is absent or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		c.mu.Lock()
		c.stats.Hits++
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return e.value, true
	}

	c.mu.Lock()
	if ok {
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
	c.stats.Misses++
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheMisses.WithLabelValues(c.name).Inc()
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))

	var zero V
	return zero, false
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
	}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

// Len returns the number of stored entries, including expired ones not
// yet cleaned up.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a copy of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// HitRate returns hits / (hits + misses) as a percentage.
func (c *Cache[V]) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) cleanup() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			c.stats.Evictions++
		}
	}
	c.stats.LastCleanup = now
	size := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// GenerateKey builds a compact key from a prefix and JSON-encodable params.
func GenerateKey(prefix string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, sum[:16])
}
