// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/unistream/internal/logging"
	ws "github.com/tomtom215/unistream/internal/websocket"
)

// Health status values.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusStarting = "starting"
	HealthStatusDegraded = "degraded"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string     `json:"status"`
	CatalogLoaded bool       `json:"catalog_loaded"`
	CatalogBusy   bool       `json:"catalog_busy"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	Breaker       string     `json:"circuit_breaker,omitempty"`
	CacheHitRate  *float64   `json:"cache_hit_rate,omitempty"`
	WSClients     int        `json:"websocket_clients"`
	Uptime        float64    `json:"uptime_seconds"`
}

// Health reports liveness and catalog state. It always answers 200; the
// status field distinguishes a catalog that never loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	health := HealthStatus{
		Status:        HealthStatusHealthy,
		CatalogLoaded: snap.Loaded(),
		CatalogBusy:   h.catalog.Busy(),
		Uptime:        time.Since(h.startTime).Seconds(),
	}
	if snap.Loaded() {
		at := snap.LoadedAt
		health.LoadedAt = &at
	}
	if err := h.catalog.LastError(); err != nil {
		health.LastError = err.Error()
	}
	if h.breaker != nil {
		health.Breaker = h.breaker.State()
	}
	if h.cache != nil {
		rate := h.cache.HitRate()
		health.CacheHitRate = &rate
	}
	if h.wsHub != nil {
		health.WSClients = h.wsHub.GetClientCount()
	}

	switch {
	case !snap.Loaded() && health.LastError != "":
		health.Status = HealthStatusDegraded
	case !snap.Loaded():
		health.Status = HealthStatusStarting
	case health.Breaker == "open":
		health.Status = HealthStatusDegraded
	}

	NewResponseWriter(w, r).Success(health)
}

// WebSocket upgrades the connection and registers it with the hub for
// catalog_updated and catalog_failed broadcasts.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: hub not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
