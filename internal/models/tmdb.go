// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package models

// TMDBPage is one page of a list endpoint (trending, popular, ...).
type TMDBPage struct {
	Page         int         `json:"page"`
	Results      []TMDBTitle `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBTitle covers both movie and TV list items. Movies fill Title and
// ReleaseDate; shows fill Name and FirstAirDate.
type TMDBTitle struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	VoteCount    int    `json:"vote_count"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	GenreIDs     []int  `json:"genre_ids"`
}

// DisplayTitle returns Title for movies and Name for shows.
func (t TMDBTitle) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

// Date returns the release or first-air date.
func (t TMDBTitle) Date() string {
	if t.ReleaseDate != "" {
		return t.ReleaseDate
	}
	return t.FirstAirDate
}

// TMDBShowDetail is the /tv/{id} response, reduced to what episode
// aggregation needs.
type TMDBShowDetail struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	NumberOfSeasons int                 `json:"number_of_seasons"`
	Seasons         []TMDBSeasonSummary `json:"seasons"`
}

// TMDBSeasonSummary is an entry of TMDBShowDetail.Seasons.
type TMDBSeasonSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
}

// TMDBSeason is the /tv/{id}/season/{n} response.
type TMDBSeason struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	SeasonNumber int           `json:"season_number"`
	Episodes     []TMDBEpisode `json:"episodes"`
}

// TMDBEpisode is one episode of a TMDBSeason.
type TMDBEpisode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	VoteCount     int    `json:"vote_count"`
}

// TMDBWatchProviders is the watch/providers response, keyed by ISO
// 3166-1 country code.
type TMDBWatchProviders struct {
	ID      int                             `json:"id"`
	Results map[string]TMDBCountryProviders `json:"results"`
}

// TMDBCountryProviders groups a country's providers by offer type.
type TMDBCountryProviders struct {
	Link     string         `json:"link"`
	Flatrate []TMDBProvider `json:"flatrate"`
	Buy      []TMDBProvider `json:"buy"`
	Rent     []TMDBProvider `json:"rent"`
}

// TMDBProvider is one provider entry.
type TMDBProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}
