// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import "fmt"

// Endpoint is a provider list path that yields one page of titles.
type Endpoint string

const (
	EndpointTrendingMovies Endpoint = "/trending/movie/week"
	EndpointTrendingShows  Endpoint = "/trending/tv/week"
	EndpointPopularMovies  Endpoint = "/movie/popular"
	EndpointPopularShows   Endpoint = "/tv/popular"
	EndpointTopRatedMovies Endpoint = "/movie/top_rated"
	EndpointTopRatedShows  Endpoint = "/tv/top_rated"
	EndpointNowPlaying     Endpoint = "/movie/now_playing"
)

type endpointInfo struct {
	name    string
	isMovie bool
}

var endpoints = map[Endpoint]endpointInfo{
	EndpointTrendingMovies: {"trending-movies", true},
	EndpointTrendingShows:  {"trending-shows", false},
	EndpointPopularMovies:  {"popular-movies", true},
	EndpointPopularShows:   {"popular-shows", false},
	EndpointTopRatedMovies: {"top-rated-movies", true},
	EndpointTopRatedShows:  {"top-rated-shows", false},
	EndpointNowPlaying:     {"now-playing", true},
}

// Valid reports whether e is a known endpoint.
func (e Endpoint) Valid() bool {
	_, ok := endpoints[e]
	return ok
}

// Name is the collection name used in URLs and metric labels.
func (e Endpoint) Name() string {
	if info, ok := endpoints[e]; ok {
		return info.name
	}
	return "unknown"
}

// IsMovie reports whether the endpoint lists movies.
func (e Endpoint) IsMovie() bool {
	return endpoints[e].isMovie
}

// IsNowPlaying reports whether theatrical bias applies.
func (e Endpoint) IsNowPlaying() bool {
	return e == EndpointNowPlaying
}

// OnDemandCollections are served on request rather than kept in the
// published snapshot.
func OnDemandCollections() []Endpoint {
	return []Endpoint{EndpointPopularMovies, EndpointPopularShows, EndpointTopRatedMovies, EndpointTopRatedShows}
}

// ParseCollection maps an on-demand collection name to its endpoint.
func ParseCollection(name string) (Endpoint, error) {
	for _, e := range OnDemandCollections() {
		if e.Name() == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}
