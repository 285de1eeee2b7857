// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/interaction"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/validation"
)

// CatalogResponse is the body of GET /catalog.
type CatalogResponse struct {
	Movies     []*models.Content `json:"movies"`
	TVShows    []*models.Content `json:"tv_shows"`
	NowPlaying []*models.Content `json:"now_playing"`
	Featured   []*models.Content `json:"featured"`
	LoadedAt   *time.Time        `json:"loaded_at,omitempty"`
	Loading    bool              `json:"loading"`
	LastError  string            `json:"last_error,omitempty"`
}

// ContentDetail is the body of GET /content/{id}.
type ContentDetail struct {
	Content *models.Content   `json:"content"`
	Stats   interaction.Stats `json:"stats"`
}

// ReloadResponse is the body of a started reload.
type ReloadResponse struct {
	Status string `json:"status"`
}

// Catalog returns the whole published snapshot.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	snap := h.catalog.Snapshot()

	resp := CatalogResponse{
		Movies:     orEmpty(snap.Movies),
		TVShows:    orEmpty(snap.TVShows),
		NowPlaying: orEmpty(snap.NowPlaying),
		Featured:   orEmpty(snap.Featured),
		Loading:    h.catalog.Busy(),
	}
	if snap.Loaded() {
		at := snap.LoadedAt
		resp.LoadedAt = &at
	}
	if err := h.catalog.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	rw.Success(resp)
}

// Featured returns the featured carousel.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	list := orEmpty(h.catalog.Snapshot().Featured)
	NewResponseWriter(w, r).SuccessList(list, len(list))
}

// Movies returns the trending movies.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	list := orEmpty(h.catalog.Snapshot().Movies)
	NewResponseWriter(w, r).SuccessList(list, len(list))
}

// Shows returns the trending shows with their episodes.
func (h *Handler) Shows(w http.ResponseWriter, r *http.Request) {
	list := orEmpty(h.catalog.Snapshot().TVShows)
	NewResponseWriter(w, r).SuccessList(list, len(list))
}

// NowPlaying returns the in-theaters movies.
func (h *Handler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	list := orEmpty(h.catalog.Snapshot().NowPlaying)
	NewResponseWriter(w, r).SuccessList(list, len(list))
}

// Collection assembles an on-demand collection (popular or top rated)
// directly from the provider. These are not part of the snapshot.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	name := chi.URLParam(r, "collection")

	endpoint, err := catalog.ParseCollection(name)
	if err != nil {
		rw.NotFound("Unknown collection: " + name)
		return
	}

	list, err := h.pages.FetchPage(r.Context(), endpoint, h.pageLimit())
	if err != nil {
		rw.ExternalServiceError("tmdb", err)
		return
	}
	list = orEmpty(list)
	rw.SuccessList(list, len(list))
}

func (h *Handler) pageLimit() int {
	if h.config == nil || h.config.Catalog.PageLimit <= 0 {
		return catalog.DefaultPageLimit
	}
	return h.config.Catalog.PageLimit
}

// Reload starts a background catalog load. It answers 409 while a load
// is already running. Cached upstream responses are dropped first.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.catalog.Busy() {
		rw.Conflict("A catalog load is already in progress")
		return
	}
	if h.cache != nil {
		h.cache.Purge()
	}

	// The load outlives the request but keeps its logging context.
	ctx := context.WithoutCancel(r.Context())
	if !h.catalog.Reload(ctx) {
		rw.Conflict("A catalog load is already in progress")
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Catalog reload requested")
	rw.Accepted(ReloadResponse{Status: "loading"})
}

// Search matches titles in the snapshot against q and category.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	req := validation.SearchRequest{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	results := orEmpty(catalog.Search(h.catalog.Snapshot(), req.Query, category))
	rw.SuccessList(results, len(results))
}

// ByService lists snapshot titles attributed to one service.
func (h *Handler) ByService(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := validation.ServiceRequest{Service: chi.URLParam(r, "service")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}
	service, err := models.ParseStreamingService(req.Service)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	results := orEmpty(catalog.FilterByService(h.catalog.Snapshot(), service))
	rw.SuccessList(results, len(results))
}

// Content returns one title with its interaction stats.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := pathUUID(rw, r, "id")
	if !ok {
		return
	}
	c := h.catalog.Snapshot().Find(id)
	if c == nil {
		writeError(rw, ErrContentNotFound)
		return
	}
	rw.Success(ContentDetail{
		Content: c,
		Stats:   h.tracker.Stats(interaction.TargetContent, id, viewerID(r)),
	})
}

// Services lists the streaming services with their brand colors.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	all := models.AllServices()
	out := make([]models.ServiceDescriptor, 0, len(all))
	for _, s := range all {
		out = append(out, s.Describe())
	}
	NewResponseWriter(w, r).SuccessList(out, len(out))
}

// CategoryDescriptor is one entry of GET /categories.
type CategoryDescriptor struct {
	Slug models.Category `json:"slug"`
	Name string          `json:"name"`
}

// Categories lists the genre buckets, "all" first.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	all := models.AllCategories()
	out := make([]CategoryDescriptor, 0, len(all))
	for _, c := range all {
		out = append(out, CategoryDescriptor{Slug: c, Name: c.DisplayName()})
	}
	NewResponseWriter(w, r).SuccessList(out, len(out))
}
