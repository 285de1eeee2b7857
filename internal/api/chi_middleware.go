// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		ExposedHeaders:   config.CORSExposedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// NewChiMiddlewareFromServer builds the factory from server settings. A
// zero request budget disables rate limiting.
func NewChiMiddlewareFromServer(corsOrigins []string, rateLimitReqs int, rateLimitWindow time.Duration) *ChiMiddleware {
	config := DefaultChiMiddlewareConfig()
	config.CORSAllowedOrigins = corsOrigins
	config.RateLimitRequests = rateLimitReqs
	config.RateLimitWindow = rateLimitWindow
	config.RateLimitDisabled = rateLimitReqs <= 0 || rateLimitWindow <= 0
	return NewChiMiddleware(config)
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the default per-IP limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitConfig{
		Requests: m.config.RateLimitRequests,
		Window:   m.config.RateLimitWindow,
	})
}

// RateLimitConfig defines rate limit parameters for specific endpoints.
type RateLimitConfig struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
}

var (
	// RateLimitAuth is strict limiting for sign-in endpoints (brute force prevention)
	RateLimitAuth = RateLimitConfig{Requests: 10, Window: time.Minute}

	// RateLimitReload limits manual catalog reloads; each one fans out to
	// dozens of upstream requests.
	RateLimitReload = RateLimitConfig{Requests: 5, Window: time.Minute}

	// RateLimitHealth is permissive for monitoring probes.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// RateLimitCustom returns a per-IP limiter with custom configuration.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded, try again later")
		}),
	)
}

// RateLimitAuth returns a strict rate limiter for authentication endpoints.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitAuth)
}

// RateLimitReload returns the limiter for POST /catalog/reload.
func (m *ChiMiddleware) RateLimitReload() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitReload)
}

// RateLimitHealth returns a rate limiter for health endpoints.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

// APISecurityHeaders adds security headers to API responses. HSTS is
// only sent over TLS or behind a TLS-terminating proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
