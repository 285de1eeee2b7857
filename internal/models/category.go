// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package models

import (
	"fmt"
	"strings"
)

// Category is the application's genre taxonomy.
type Category string

const (
	// CategoryAll is a filter value only; the genre mapper never produces it.
	CategoryAll         Category = "all"
	CategoryAction      Category = "action"
	CategoryDrama       Category = "drama"
	CategoryComedy      Category = "comedy"
	CategorySciFi       Category = "scifi"
	CategoryHorror      Category = "horror"
	CategoryDocumentary Category = "documentary"
	CategoryKids        Category = "kids"
)

var categoryNames = map[Category]string{
	CategoryAll:         "All",
	CategoryAction:      "Action",
	CategoryDrama:       "Drama",
	CategoryComedy:      "Comedy",
	CategorySciFi:       "Sci-Fi",
	CategoryHorror:      "Horror",
	CategoryDocumentary: "Documentary",
	CategoryKids:        "Kids",
}

// AllCategories returns the categories in display order, "all" first.
func AllCategories() []Category {
	return []Category{
		CategoryAll, CategoryAction, CategoryDrama, CategoryComedy,
		CategorySciFi, CategoryHorror, CategoryDocumentary, CategoryKids,
	}
}

// DisplayName returns the human label, e.g. "Sci-Fi".
func (c Category) DisplayName() string {
	return categoryNames[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Matches reports whether content of category other passes filter c.
func (c Category) Matches(other Category) bool {
	return c == CategoryAll || c == other
}

// ParseCategory accepts a key ("scifi") or display name ("Sci-Fi").
// An empty string parses as CategoryAll.
func ParseCategory(v string) (Category, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return CategoryAll, nil
	}
	for _, c := range AllCategories() {
		if strings.EqualFold(v, string(c)) || strings.EqualFold(v, c.DisplayName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", v)
}
