// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package config loads Unistream configuration from struct defaults, an
// optional YAML file and environment variables, in that order of
// precedence (later layers win).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration object.
type Config struct {
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// TMDBConfig configures the outbound metadata client.
type TMDBConfig struct {
	// APIToken is the v4 read access token sent as a bearer credential.
	// Required.
	APIToken string `koanf:"api_token"`

	// BaseURL of the v3 API. Default: https://api.themoviedb.org/3
	BaseURL string `koanf:"base_url"`

	// ImageBaseURL is prefixed to poster and backdrop paths.
	// Default: https://image.tmdb.org/t/p/original
	ImageBaseURL string `koanf:"image_base_url"`

	// Timeout bounds each HTTP request. Default: 15s
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond paces outbound calls; a page fan-out issues
	// dozens of requests at once. Zero disables pacing. Default: 40
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst is the token bucket size. Default: 20
	Burst int `koanf:"burst"`

	// CacheTTL keeps decoded detail responses (show details, seasons,
	// provider listings, on-demand collections). Zero disables the cache.
	// Default: 10m
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CircuitBreaker toggles the gobreaker wrapper. Default: true
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// CatalogConfig configures catalog assembly and refresh.
type CatalogConfig struct {
	// PageLimit caps the number of items enriched per page. Default: 20
	PageLimit int `koanf:"page_limit"`

	// RefreshInterval between background loads. Zero disables periodic
	// refresh. Default: 30m
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// LoadOnStart triggers a load as soon as the service starts. Default: true
	LoadOnStart bool `koanf:"load_on_start"`

	// RandomSeed fixes the like-count seed generator when non-zero.
	RandomSeed uint64 `koanf:"random_seed"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins accepts a comma-separated list from the environment.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP. Zero disables.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// StorageConfig configures user-state persistence.
type StorageConfig struct {
	// Path of the BadgerDB directory. Default: /data/unistream
	Path string `koanf:"path"`

	// InMemory keeps all state in process memory (lost on restart).
	InMemory bool `koanf:"in_memory"`
}

// SecurityConfig configures session tokens.
type SecurityConfig struct {
	// JWTSecret signs session tokens. At least 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the token lifetime. Default: 24h
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AuthLatency simulates the provider round trip of the mock
	// authenticator. Default: 0
	AuthLatency time.Duration `koanf:"auth_latency"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
