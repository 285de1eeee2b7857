// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/models"
)

// Search returns movies and shows whose title contains query, ignoring
// case, that fall in category. An empty query matches every title.
func Search(s Snapshot, query string, category models.Category) []*models.Content {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Content, 0)
	for _, c := range dedupe(s.Movies, s.TVShows) {
		if !category.Matches(c.Category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterByService returns every published title on service.
func FilterByService(s Snapshot, service models.StreamingService) []*models.Content {
	out := make([]*models.Content, 0)
	for _, c := range dedupe(s.Movies, s.TVShows, s.NowPlaying) {
		if c.Service == service {
			out = append(out, c)
		}
	}
	return out
}

func dedupe(lists ...[]*models.Content) []*models.Content {
	seen := make(map[uuid.UUID]struct{})
	var out []*models.Content
	for _, list := range lists {
		for _, c := range list {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
