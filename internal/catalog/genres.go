// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import "github.com/tomtom215/unistream/internal/models"

// genreCategories maps TMDB genre IDs to categories.
var genreCategories = map[int]models.Category{
	28:    models.CategoryAction,      // Action
	12:    models.CategoryAction,      // Adventure
	35:    models.CategoryComedy,      // Comedy
	18:    models.CategoryDrama,       // Drama
	80:    models.CategoryDrama,       // Crime
	878:   models.CategorySciFi,       // Science Fiction
	14:    models.CategorySciFi,       // Fantasy
	27:    models.CategoryHorror,      // Horror
	53:    models.CategoryHorror,      // Thriller
	99:    models.CategoryDocumentary, // Documentary
	16:    models.CategoryKids,        // Animation
	10751: models.CategoryKids,        // Family
}

// MapGenres returns the category of the first recognised genre ID in
// input order, or action when none is recognised.
func MapGenres(ids []int) models.Category {
	for _, id := range ids {
		if c, ok := genreCategories[id]; ok {
			return c
		}
	}
	return models.CategoryAction
}
