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

// CatalogLoader matches *catalog.Store's synchronous Load.
type CatalogLoader interface {
	// Load returns false when another load was already running.
	Load(ctx context.Context) bool
}

// CatalogRefreshConfig holds configuration for the refresh service.
type CatalogRefreshConfig struct {
	// LoadOnStart triggers a load when the service starts.
	LoadOnStart bool

	// RefreshInterval between loads. Zero disables periodic refresh; the
	// service then only performs the startup load.
	RefreshInterval time.Duration

	// LoadTimeout bounds a single load. Default: 5m
	LoadTimeout time.Duration
}

// CatalogRefreshService keeps the published catalog fresh under
// supervision.
type CatalogRefreshService struct {
	loader CatalogLoader
	config CatalogRefreshConfig
	logger zerolog.Logger
	name   string
}

// NewCatalogRefreshService creates a new refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogRefreshService(loader CatalogLoader, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 5 * time.Minute
	}
	return &CatalogRefreshService{
		loader: loader,
		config: cfg,
		logger: logger.With().Str("service", "catalog-refresh").Logger(),
		name:   "catalog-refresh",
	}
}

// Serve implements suture.Service. Load failures are recorded by the
// store and never restart the service.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_start", s.config.LoadOnStart).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("catalog refresh service starting")

	if s.config.LoadOnStart {
		s.load(ctx)
	}

	if s.config.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled catalog refresh triggered")
			s.load(ctx)
		}
	}
}

func (s *CatalogRefreshService) load(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	if !s.loader.Load(loadCtx) {
		s.logger.Debug().Msg("catalog load already in progress, skipping")
	}
}

// String returns the service name for logging.
func (s *CatalogRefreshService) String() string {
	return s.name
}
