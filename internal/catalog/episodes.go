// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/tmdb"
)

const (
	// MaxSeasons caps how many regular seasons are fetched per show.
	MaxSeasons = 3

	// PlaceholderEpisodes is the number of synthetic episodes given to a
	// show whose detail could not be fetched.
	PlaceholderEpisodes = 5

	episodeLikesMin = 50
	episodeLikesMax = 500
)

// EpisodeAggregator builds a show's episode list from its first seasons.
type EpisodeAggregator struct {
	fetcher tmdb.Fetcher
	rand    RandSource
	logger  zerolog.Logger
}

// NewEpisodeAggregator creates an aggregator. rand must be safe for
// concurrent use.
func NewEpisodeAggregator(f tmdb.Fetcher, rand RandSource) *EpisodeAggregator {
	return &EpisodeAggregator{fetcher: f, rand: rand, logger: logging.WithComponent("episodes")}
}

// Aggregate returns the episodes of the first MaxSeasons seasons numbered
// above zero, ordered by season. Failed seasons are skipped. The error
// is non-nil only when the show detail itself cannot be fetched.
func (a *EpisodeAggregator) Aggregate(ctx context.Context, showID int, parent *models.Content) ([]*models.Episode, error) {
	detail, err := tmdb.Get[models.TMDBShowDetail](ctx, a.fetcher, fmt.Sprintf("/tv/%d", showID), nil)
	if err != nil {
		return nil, fmt.Errorf("show %d detail: %w", showID, err)
	}

	numbers := selectSeasons(detail.Seasons)
	seasons := make([]*models.TMDBSeason, len(numbers))

	var wg sync.WaitGroup
	for i, n := range numbers {
		wg.Add(1)
		go func(i, n int) {
			defer wg.Done()
			season, err := tmdb.Get[models.TMDBSeason](ctx, a.fetcher, fmt.Sprintf("/tv/%d/season/%d", showID, n), nil)
			if err != nil {
				metrics.EpisodeSeasonFailures.Inc()
				a.logger.Debug().Err(err).Int("show_id", showID).Int("season", n).Msg("season fetch failed, skipping")
				return
			}
			seasons[i] = season
		}(i, n)
	}
	wg.Wait()

	episodes := make([]*models.Episode, 0)
	for i, season := range seasons {
		if season == nil {
			continue
		}
		for _, ep := range season.Episodes {
			episodes = append(episodes, &models.Episode{
				ID:            uuid.New(),
				ParentID:      parent.ID,
				Title:         ep.Name,
				Description:   ep.Overview,
				SeasonNumber:  numbers[i],
				EpisodeNumber: ep.EpisodeNumber,
				Likes:         between(a.rand, episodeLikesMin, episodeLikesMax),
				Comments:      []models.Comment{},
				Parent:        parent,
			})
		}
	}
	return episodes, nil
}

// Placeholders returns synthetic season 1 episodes for parent.
func (a *EpisodeAggregator) Placeholders(parent *models.Content) []*models.Episode {
	episodes := make([]*models.Episode, 0, PlaceholderEpisodes)
	for n := 1; n <= PlaceholderEpisodes; n++ {
		episodes = append(episodes, &models.Episode{
			ID:            uuid.New(),
			ParentID:      parent.ID,
			Title:         fmt.Sprintf("Episode %d", n),
			Description:   "A new exciting episode of " + parent.Title,
			SeasonNumber:  1,
			EpisodeNumber: n,
			Likes:         between(a.rand, episodeLikesMin, episodeLikesMax),
			Comments:      []models.Comment{},
			Parent:        parent,
		})
	}
	return episodes
}

// selectSeasons returns the MaxSeasons lowest season numbers above zero,
// ascending, whatever order the provider lists them in.
func selectSeasons(summaries []models.TMDBSeasonSummary) []int {
	numbers := make([]int, 0, len(summaries))
	for _, s := range summaries {
		if s.SeasonNumber > 0 {
			numbers = append(numbers, s.SeasonNumber)
		}
	}
	sort.Ints(numbers)
	numbers = slices.Compact(numbers)
	if len(numbers) > MaxSeasons {
		numbers = numbers[:MaxSeasons]
	}
	return numbers
}
