// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/tmdb"
)

const (
	// DefaultPageLimit is how many items of a provider page are assembled.
	DefaultPageLimit = 20

	contentLikesMin = 100
	contentLikesMax = 1000
)

// PageFetcher produces assembled content for one endpoint page.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint Endpoint, pageLimit int) ([]*models.Content, error)
}

// AssemblerConfig configures an Assembler.
type AssemblerConfig struct {
	// ImageBaseURL defaults to tmdb.DefaultImageBaseURL.
	ImageBaseURL string

	// Rand seeds like counts. Nil uses a runtime-seeded source.
	Rand RandSource
}

// Assembler fans out per-title enrichment across a provider page.
type Assembler struct {
	fetcher   tmdb.Fetcher
	resolver  *ServiceResolver
	episodes  *EpisodeAggregator
	rand      RandSource
	imageBase string
	logger    zerolog.Logger
}

var _ PageFetcher = (*Assembler)(nil)

// NewAssembler creates an Assembler and its resolver and aggregator.
func NewAssembler(f tmdb.Fetcher, cfg AssemblerConfig) *Assembler {
	src := cfg.Rand
	if src == nil {
		src = NewRandSource(0)
	}
	rnd := &lockedRand{src: src}

	imageBase := cfg.ImageBaseURL
	if imageBase == "" {
		imageBase = tmdb.DefaultImageBaseURL
	}

	return &Assembler{
		fetcher:   f,
		resolver:  NewServiceResolver(f),
		episodes:  NewEpisodeAggregator(f, rnd),
		rand:      rnd,
		imageBase: imageBase,
		logger:    logging.WithComponent("assembler"),
	}
}

type assembled struct {
	content *models.Content
	err     error
}

// FetchPage assembles the first pageLimit items of endpoint's first
// page. Items are enriched concurrently and returned in completion
// order. Any item failure fails the whole page.
func (a *Assembler) FetchPage(ctx context.Context, endpoint Endpoint, pageLimit int) ([]*models.Content, error) {
	if !endpoint.Valid() {
		return nil, fmt.Errorf("fetch page: unknown endpoint %q", endpoint)
	}
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	page, err := tmdb.Get[models.TMDBPage](ctx, a.fetcher, string(endpoint), nil)
	if err != nil {
		metrics.CatalogPageFetches.WithLabelValues(endpoint.Name(), "failure").Inc()
		return nil, fmt.Errorf("fetch %s page: %w", endpoint.Name(), err)
	}

	items := page.Results
	if len(items) > pageLimit {
		items = items[:pageLimit]
	}

	results := make(chan assembled, len(items))
	for _, item := range items {
		go func(item models.TMDBTitle) {
			defer func() {
				if r := recover(); r != nil {
					results <- assembled{err: fmt.Errorf("assemble title %d: panic: %v", item.ID, r)}
				}
			}()
			c, err := a.assemble(ctx, endpoint, item)
			results <- assembled{content: c, err: err}
		}(item)
	}

	contents := make([]*models.Content, 0, len(items))
	var firstErr error
	for range items {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		contents = append(contents, res.content)
	}
	if firstErr != nil {
		metrics.CatalogPageFetches.WithLabelValues(endpoint.Name(), "failure").Inc()
		return nil, fmt.Errorf("fetch %s page: %w", endpoint.Name(), firstErr)
	}

	metrics.CatalogPageFetches.WithLabelValues(endpoint.Name(), "success").Inc()
	a.logger.Debug().Str("endpoint", endpoint.Name()).Int("items", len(contents)).Msg("page assembled")
	return contents, nil
}

func (a *Assembler) assemble(ctx context.Context, endpoint Endpoint, item models.TMDBTitle) (*models.Content, error) {
	isMovie := endpoint.IsMovie()
	title := item.DisplayTitle()

	var service models.StreamingService
	if endpoint.IsNowPlaying() {
		providers := a.resolver.Providers(ctx, item.ID, true)
		stage := StageTheatrical
		if len(providers) == 0 {
			service = models.ServiceInTheaters
		} else {
			service, stage = a.resolver.Decide(providers, Candidate{Title: title, Overview: item.Overview, IsMovie: true})
		}
		metrics.ServiceResolutions.WithLabelValues(stage, service.Slug()).Inc()
	} else {
		service = a.resolver.Resolve(ctx, item.ID, isMovie, title, item.Overview)
	}

	content := &models.Content{
		ID:           uuid.New(),
		ProviderID:   item.ID,
		Title:        title,
		Service:      service,
		Category:     MapGenres(item.GenreIDs),
		ThumbnailURL: tmdb.ImageURL(a.imageBase, item.PosterPath),
		BannerURL:    tmdb.ImageURL(a.imageBase, item.BackdropPath),
		Description:  item.Overview,
		IsSeries:     !isMovie,
		Likes:        between(a.rand, contentLikesMin, contentLikesMax),
		Comments:     []models.Comment{},
		ViewCount:    item.VoteCount,
		ReleaseDate:  item.Date(),
	}

	if content.IsSeries {
		episodes, err := a.episodes.Aggregate(ctx, item.ID, content)
		if err != nil {
			metrics.EpisodePlaceholders.Inc()
			a.logger.Debug().Err(err).Int("show_id", item.ID).Msg("using placeholder episodes")
			episodes = a.episodes.Placeholders(content)
		}
		content.Episodes = episodes
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assemble title %d: %w", item.ID, err)
	}
	return content, nil
}
