// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package main

import (
	"fmt"

	"github.com/tomtom215/unistream/internal/config"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/persistence"
	"github.com/tomtom215/unistream/internal/tmdb"
)

// storage bundles the user-state store with whether it lives on disk.
type storage struct {
	store  *persistence.BadgerStore
	onDisk bool
}

// openStorage opens BadgerDB at cfg.Path, or a process-local Badger
// instance when cfg.InMemory is set.
func openStorage(cfg config.StorageConfig) (*storage, error) {
	db, err := persistence.OpenBadger(cfg.Path, cfg.InMemory)
	if err != nil {
		return nil, fmt.Errorf("open badger storage: %w", err)
	}
	if cfg.InMemory {
		logging.Warn().Msg("Storage is in memory, user state will not survive restarts")
	}
	return &storage{store: db, onDisk: !cfg.InMemory}, nil
}

// durable reports whether the store writes to disk. Value-log GC only
// applies to on-disk databases.
func (s *storage) durable() bool {
	return s.onDisk
}

// upstream is the decorated metadata client plus the handles main needs
// for health reporting and cleanup.
type upstream struct {
	fetcher tmdb.Fetcher
	breaker *tmdb.CircuitBreakerClient
	cache   *tmdb.CachingClient
}

func (u *upstream) Close() {
	if u.cache != nil {
		u.cache.Close()
	}
}

// buildUpstream composes client -> circuit breaker -> cache. The cache
// sits outermost so cached hits never count against the breaker.
func buildUpstream(cfg config.TMDBConfig) *upstream {
	u := &upstream{}
	u.fetcher = tmdb.NewClient(tmdb.Config{
		BaseURL:           cfg.BaseURL,
		Token:             cfg.APIToken,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})

	if cfg.CircuitBreaker {
		u.breaker = tmdb.NewCircuitBreakerClient(u.fetcher, "tmdb-api")
		u.fetcher = u.breaker
	}
	if cfg.CacheTTL > 0 {
		u.cache = tmdb.NewCachingClient(u.fetcher, cfg.CacheTTL, tmdb.CacheDetails)
		u.fetcher = u.cache
	}
	return u
}
