// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/models"
)

// FeaturedCount is how many titles lead the featured carousel.
const FeaturedCount = 3

// Snapshot is one published catalog. Values are never mutated after
// publication; a reload publishes a new Snapshot.
type Snapshot struct {
	Movies     []*models.Content `json:"movies"`
	TVShows    []*models.Content `json:"tv_shows"`
	NowPlaying []*models.Content `json:"now_playing"`
	Featured   []*models.Content `json:"featured"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// Loaded reports whether the snapshot came from a successful load.
func (s Snapshot) Loaded() bool {
	return !s.LoadedAt.IsZero()
}

// Find returns the content with id from any collection, or nil.
func (s Snapshot) Find(id uuid.UUID) *models.Content {
	for _, list := range [][]*models.Content{s.Movies, s.TVShows, s.NowPlaying} {
		for _, c := range list {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// FindEpisode returns the episode with id, or nil.
func (s Snapshot) FindEpisode(id uuid.UUID) *models.Episode {
	for _, c := range s.TVShows {
		if ep := c.Episode(id); ep != nil {
			return ep
		}
	}
	return nil
}

func newSnapshot(movies, shows, nowPlaying []*models.Content, at time.Time) *Snapshot {
	featured := make([]*models.Content, 0, FeaturedCount)
	for _, c := range append(append([]*models.Content{}, movies...), shows...) {
		if len(featured) == FeaturedCount {
			break
		}
		featured = append(featured, c)
	}
	return &Snapshot{Movies: movies, TVShows: shows, NowPlaying: nowPlaying, Featured: featured, LoadedAt: at}
}

// LoadEvent is delivered to observers after every load that ran.
type LoadEvent struct {
	Snapshot Snapshot
	Err      error
	Duration time.Duration
}

// Observer is called synchronously at the end of Load.
type Observer func(LoadEvent)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPageLimit sets how many items of each page are assembled.
func WithPageLimit(n int) StoreOption {
	return func(s *Store) { s.pageLimit = n }
}

// Store holds the last successfully assembled catalog. At most one load
// runs at a time; a Load issued while another is running is dropped.
type Store struct {
	assembler PageFetcher
	pageLimit int

	busy     atomic.Bool
	snapshot atomic.Pointer[Snapshot]

	mu        sync.RWMutex
	lastErr   error
	observers []Observer

	logger zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(assembler PageFetcher, opts ...StoreOption) *Store {
	s := &Store{
		assembler: assembler,
		pageLimit: DefaultPageLimit,
		logger:    logging.WithComponent("catalog-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Observe registers fn for load events.
func (s *Store) Observe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Snapshot returns the currently published catalog.
func (s *Store) Snapshot() Snapshot {
	return *s.snapshot.Load()
}

// Busy reports whether a load is in flight.
func (s *Store) Busy() bool {
	return s.busy.Load()
}

// LastError returns the error of the most recent load, or nil if it
// succeeded or is still running.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Load fetches trending movies, trending shows and now playing in that
// order and publishes them together. It returns false without doing
// anything when a load is already running. On failure the published
// snapshot is left as it was and LastError is set.
func (s *Store) Load(ctx context.Context) bool {
	if !s.busy.CompareAndSwap(false, true) {
		metrics.RecordCatalogLoad("skipped", 0)
		return false
	}
	s.run(ctx)
	return true
}

// Reload starts a load in a new goroutine and returns immediately. It
// reports false when a load is already running. ctx bounds the load and
// must outlive the caller's request.
func (s *Store) Reload(ctx context.Context) bool {
	if !s.busy.CompareAndSwap(false, true) {
		metrics.RecordCatalogLoad("skipped", 0)
		return false
	}
	go s.run(ctx)
	return true
}

// run performs one load. The caller must have set busy.
func (s *Store) run(ctx context.Context) {
	defer s.busy.Store(false)

	s.setErr(nil)
	start := time.Now()

	snap, err := s.fetchAll(ctx)
	duration := time.Since(start)

	if err != nil {
		s.setErr(err)
		metrics.RecordCatalogLoad("failure", duration)
		s.logger.Warn().Err(err).Dur("duration", duration).Msg("catalog load failed, keeping previous snapshot")
	} else {
		s.snapshot.Store(snap)
		metrics.RecordCatalogLoad("success", duration)
		metrics.CatalogItems.WithLabelValues("movies").Set(float64(len(snap.Movies)))
		metrics.CatalogItems.WithLabelValues("tv_shows").Set(float64(len(snap.TVShows)))
		metrics.CatalogItems.WithLabelValues("now_playing").Set(float64(len(snap.NowPlaying)))
		s.logger.Info().
			Int("movies", len(snap.Movies)).
			Int("tv_shows", len(snap.TVShows)).
			Int("now_playing", len(snap.NowPlaying)).
			Dur("duration", duration).
			Msg("catalog loaded")
	}

	s.notify(LoadEvent{Snapshot: s.Snapshot(), Err: err, Duration: duration})
}

func (s *Store) fetchAll(ctx context.Context) (*Snapshot, error) {
	movies, err := s.assembler.FetchPage(ctx, EndpointTrendingMovies, s.pageLimit)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	shows, err := s.assembler.FetchPage(ctx, EndpointTrendingShows, s.pageLimit)
	if err != nil {
		return nil, fmt.Errorf("load tv shows: %w", err)
	}
	nowPlaying, err := s.assembler.FetchPage(ctx, EndpointNowPlaying, s.pageLimit)
	if err != nil {
		return nil, fmt.Errorf("load now playing: %w", err)
	}
	return newSnapshot(movies, shows, nowPlaying, time.Now().UTC()), nil
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) notify(ev LoadEvent) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}
