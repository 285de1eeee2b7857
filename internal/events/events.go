// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package events

import (
	"time"

	"github.com/tomtom215/unistream/internal/catalog"
)

// Topics.
const (
	TopicCatalogLoaded = "catalog.loaded"
	TopicPoison        = "events.poison"
)

// CatalogLoaded summarizes one finished catalog load. Error is empty on
// success, and the counts are zero on failure.
type CatalogLoaded struct {
	LoadedAt   time.Time `json:"loaded_at"`
	Movies     int       `json:"movies"`
	TVShows    int       `json:"tv_shows"`
	NowPlaying int       `json:"now_playing"`
	Featured   int       `json:"featured"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether the load failed.
func (e CatalogLoaded) Failed() bool {
	return e.Error != ""
}

// FromLoadEvent converts a catalog store notification.
func FromLoadEvent(ev catalog.LoadEvent) CatalogLoaded {
	out := CatalogLoaded{DurationMs: ev.Duration.Milliseconds()}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
		return out
	}
	snap := ev.Snapshot
	out.LoadedAt = snap.LoadedAt
	out.Movies = len(snap.Movies)
	out.TVShows = len(snap.TVShows)
	out.NowPlaying = len(snap.NowPlaying)
	out.Featured = len(snap.Featured)
	return out
}
