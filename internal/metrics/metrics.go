// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package metrics declares the Prometheus collectors for Unistream.
//
// Collectors are registered on the default registry at package init via
// promauto and served by promhttp.Handler on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Metadata provider (TMDB) metrics
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of metadata provider requests",
		},
		[]string{"resource", "outcome"}, // outcome: ok, http_error, transport_error, decode_error
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Metadata provider request duration in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	TMDBRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdb_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog pipeline metrics
	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of a full catalog load",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog loads by outcome",
		},
		[]string{"outcome"}, // success, failure, skipped
	)

	CatalogLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_success_timestamp_seconds",
			Help: "Unix time of the last successful catalog load",
		},
	)

	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of titles in each published collection",
		},
		[]string{"collection"},
	)

	CatalogPageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_page_fetches_total",
			Help: "Page assemblies by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ServiceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_resolutions_total",
			Help: "Streaming service resolutions by deciding stage",
		},
		[]string{"stage", "service"}, // stage: provider, pattern, default, theatrical
	)

	EpisodeSeasonFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "episode_season_fetch_failures_total",
			Help: "Season detail fetches that failed and were skipped",
		},
	)

	EpisodePlaceholders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "episode_placeholder_shows_total",
			Help: "Shows that received synthetic placeholder episodes",
		},
	)

	// HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Auth and user-state metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Authentication attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_interactions_total",
			Help: "Like and watched mutations",
		},
		[]string{"target", "kind", "action"}, // target: content, episode; kind: like, view; action: add, remove
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Event bus metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the in-process bus",
		},
		[]string{"topic", "outcome"}, // outcome: ok, error
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of event deliveries by handler and outcome",
		},
		[]string{"handler", "outcome"}, // outcome: ok, error, poisoned
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTMDBRequest records one provider call.
func RecordTMDBRequest(resource, outcome string, duration time.Duration) {
	TMDBRequestsTotal.WithLabelValues(resource, outcome).Inc()
	TMDBRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordCatalogLoad records the outcome of a Store.Load call. Skipped
// loads (another load already in flight) carry no duration.
func RecordCatalogLoad(outcome string, duration time.Duration) {
	CatalogLoadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "skipped" {
		return
	}
	CatalogLoadDuration.Observe(duration.Seconds())
	if outcome == "success" {
		CatalogLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
