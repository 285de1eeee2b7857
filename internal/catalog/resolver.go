// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/tmdb"
)

// Resolution stages, used as metric labels.
const (
	StageProvider   = "provider"
	StagePattern    = "pattern"
	StageDefault    = "default"
	StageTheatrical = "theatrical"
)

// preferredCountries are consulted before any other country in a
// watch-provider listing.
var preferredCountries = []string{"US", "CA", "GB"}

// ServiceResolver decides which streaming service a title belongs to.
// It never fails: provider lookup errors degrade to the pattern and
// default stages.
type ServiceResolver struct {
	fetcher       tmdb.Fetcher
	providerRules []Rule
	patternRules  []Rule
	defaultRules  []Rule
	logger        zerolog.Logger
}

// NewServiceResolver creates a resolver with the built-in rule sets.
func NewServiceResolver(f tmdb.Fetcher) *ServiceResolver {
	return &ServiceResolver{
		fetcher:       f,
		providerRules: ProviderRules(),
		patternRules:  PatternRules(),
		defaultRules:  DefaultRules(),
		logger:        logging.WithComponent("service-resolver"),
	}
}

// Resolve returns the service for a title.
func (r *ServiceResolver) Resolve(ctx context.Context, titleID int, isMovie bool, title, overview string) models.StreamingService {
	providers := r.Providers(ctx, titleID, isMovie)
	service, stage := r.Decide(providers, Candidate{Title: title, Overview: overview, IsMovie: isMovie})
	metrics.ServiceResolutions.WithLabelValues(stage, service.Slug()).Inc()
	return service
}

// Providers returns the title's watch providers for the preferred
// country, ordered subscription, then purchase, then rental. Lookup
// failures yield an empty list.
func (r *ServiceResolver) Providers(ctx context.Context, titleID int, isMovie bool) []models.TMDBProvider {
	kind := "tv"
	if isMovie {
		kind = "movie"
	}
	listing, err := tmdb.Get[models.TMDBWatchProviders](ctx, r.fetcher, fmt.Sprintf("/%s/%d/watch/providers", kind, titleID), nil)
	if err != nil {
		r.logger.Debug().Err(err).Int("title_id", titleID).Str("kind", kind).Msg("watch provider lookup failed, continuing without providers")
		return nil
	}
	country, ok := pickCountry(listing.Results)
	if !ok {
		return nil
	}
	cp := listing.Results[country]
	out := make([]models.TMDBProvider, 0, len(cp.Flatrate)+len(cp.Buy)+len(cp.Rent))
	out = append(out, cp.Flatrate...)
	out = append(out, cp.Buy...)
	out = append(out, cp.Rent...)
	return out
}

// Decide runs the provider, pattern and default stages over an already
// fetched provider list and reports which stage produced the answer.
func (r *ServiceResolver) Decide(providers []models.TMDBProvider, c Candidate) (models.StreamingService, string) {
	for _, p := range providers {
		c.ProviderID = p.ProviderID
		if s, ok := FirstMatch(r.providerRules, c); ok {
			return s, StageProvider
		}
	}
	c.ProviderID = 0

	if s, ok := FirstMatch(r.patternRules, c); ok {
		return s, StagePattern
	}
	if s, ok := FirstMatch(r.defaultRules, c); ok {
		return s, StageDefault
	}
	return models.ServiceNetflix, StageDefault
}

func pickCountry(results map[string]models.TMDBCountryProviders) (string, bool) {
	for _, cc := range preferredCountries {
		if _, ok := results[cc]; ok {
			return cc, true
		}
	}
	if len(results) == 0 {
		return "", false
	}
	rest := make([]string, 0, len(results))
	for cc := range results {
		rest = append(rest, cc)
	}
	sort.Strings(rest)
	return rest[0], true
}
