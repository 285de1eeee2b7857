// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/config"
	"github.com/tomtom215/unistream/internal/interaction"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/models"
	ws "github.com/tomtom215/unistream/internal/websocket"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// BreakerState exposes the upstream circuit breaker state for health
// reporting.
type BreakerState interface {
	State() string
}

// UpstreamCache is the metadata response cache. A manual reload purges
// it so provider listings are re-read.
type UpstreamCache interface {
	Purge()
	HitRate() float64
}

// Handler contains dependencies for API handlers.
type Handler struct {
	catalog   *catalog.Store
	pages     catalog.PageFetcher
	accounts  *account.Service
	tracker   *interaction.Tracker
	wsHub     *ws.Hub
	config    *config.Config
	breaker   BreakerState
	cache     UpstreamCache
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// pages serves the on-demand collections and is normally the same
// assembler that feeds the catalog store. wsHub may be nil, in which
// case /ws answers 503.
func NewHandler(cfg *config.Config, store *catalog.Store, pages catalog.PageFetcher, accounts *account.Service, tracker *interaction.Tracker, wsHub *ws.Hub) *Handler {
	return &Handler{
		catalog:   store,
		pages:     pages,
		accounts:  accounts,
		tracker:   tracker,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetBreaker registers the upstream circuit breaker for /health.
func (h *Handler) SetBreaker(b BreakerState) {
	h.breaker = b
}

// SetCache registers the upstream response cache.
func (h *Handler) SetCache(c UpstreamCache) {
	h.cache = c
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-host connections, non-browser
// clients and the configured CORS origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	if h.config == nil {
		return false
	}
	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(rw *ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		rw.ValidationError("Invalid "+name, map[string]interface{}{"field": name, "tag": "uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// requireUser returns the authenticated user ID. Routes using it are
// mounted behind AuthMiddleware.Require.
func requireUser(rw *ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id := viewerID(r)
	if id == uuid.Nil {
		rw.Unauthorized("Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// orEmpty keeps JSON arrays from encoding as null.
func orEmpty(list []*models.Content) []*models.Content {
	if list == nil {
		return []*models.Content{}
	}
	return list
}
