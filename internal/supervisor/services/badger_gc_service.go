// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector matches *persistence.BadgerStore's value log GC.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// DefaultGCDiscardRatio rewrites value log files that are at least half
// garbage.
const DefaultGCDiscardRatio = 0.5

// BadgerGCService periodically reclaims value log space.
type BadgerGCService struct {
	gc           GarbageCollector
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewBadgerGCService creates the service. A non-positive interval
// defaults to 10 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{
		gc:           gc,
		interval:     interval,
		discardRatio: DefaultGCDiscardRatio,
		logger:       logger.With().Str("service", "badger-gc").Logger(),
		name:         "badger-gc",
	}
}

// Serve implements suture.Service. A GC error is returned so the
// supervisor restarts the service with backoff.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.discardRatio); err != nil {
				s.logger.Error().Err(err).Msg("value log gc failed")
				return err
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("value log gc complete")
		}
	}
}

// String returns the service name for logging.
func (s *BadgerGCService) String() string {
	return s.name
}
