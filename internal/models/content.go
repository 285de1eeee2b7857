// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package models

import (
	"time"

	"github.com/google/uuid"
)

// Content is a movie or show assembled from one provider result.
//
// Episodes is non-nil exactly when IsSeries is true (it may be empty).
// ID is generated at assembly time and is not derived from ProviderID.
type Content struct {
	ID           uuid.UUID        `json:"id"`
	ProviderID   int              `json:"provider_id"`
	Title        string           `json:"title"`
	Service      StreamingService `json:"service"`
	Category     Category         `json:"category"`
	ThumbnailURL string           `json:"thumbnail_url"`
	BannerURL    string           `json:"banner_url"`
	Description  string           `json:"description"`
	IsSeries     bool             `json:"is_series"`
	Likes        int              `json:"likes"`
	Comments     []Comment        `json:"comments"`
	Episodes     []*Episode       `json:"episodes"`
	ViewCount    int              `json:"view_count"`
	ReleaseDate  string           `json:"release_date,omitempty"`
}

// Episode belongs to exactly one Content.
type Episode struct {
	ID            uuid.UUID `json:"id"`
	ParentID      uuid.UUID `json:"parent_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SeasonNumber  int       `json:"season_number"`
	EpisodeNumber int       `json:"episode_number"`
	Likes         int       `json:"likes"`
	Comments      []Comment `json:"comments"`

	// Parent is a display-only back-reference; never use it as a key.
	Parent *Content `json:"-"`
}

// Comment is a user-authored note on a Content or one of its Episodes.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	ContentID uuid.UUID  `json:"content_id"`
	EpisodeID *uuid.UUID `json:"episode_id,omitempty"`
}

// LinkEpisodes points every episode's Parent and ParentID at c. Decoding
// from JSON leaves Parent nil, so callers restoring persisted content
// run this once after unmarshalling.
func (c *Content) LinkEpisodes() {
	for _, ep := range c.Episodes {
		ep.Parent = c
		ep.ParentID = c.ID
	}
}

// Episode returns the episode with the given ID, or nil.
func (c *Content) Episode(id uuid.UUID) *Episode {
	for _, ep := range c.Episodes {
		if ep.ID == id {
			return ep
		}
	}
	return nil
}
