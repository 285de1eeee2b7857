// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/unistream/internal/middleware"
)

// Router wires handlers and middleware onto a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *AuthMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authMw *AuthMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMw, auth: authMw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)         // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)         // Extract real IP from X-Forwarded-For
	r.Use(middleware.AccessLog(0))      // One structured entry per request
	r.Use(chimiddleware.Recoverer)      // Recover from panics
	r.Use(middleware.PrometheusMetrics) // Labels by route pattern
	r.Use(router.chiMiddleware.CORS())  // CORS must be global to handle OPTIONS preflight

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// ========================
		// Health and Metrics
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/health", router.handler.Health)
			r.Handle("/metrics", promhttp.Handler())
		})

		// ========================
		// WebSocket
		// ========================
		// Kept out of the compressed group so the upgrade can hijack
		// the raw connection.
		r.With(router.chiMiddleware.RateLimit()).Get("/ws", router.handler.WebSocket)

		// ========================
		// Authentication
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Post("/signin", router.handler.SignIn)
			r.Post("/signup", router.handler.SignUp)
			r.Post("/social/{provider}", router.handler.SocialSignIn)
			r.With(router.auth.Require).Post("/signout", router.handler.SignOut)
		})

		// ========================
		// Catalog and Interactions
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))
			r.Use(router.auth.Optional)

			r.Get("/catalog", router.handler.Catalog)
			r.Get("/catalog/featured", router.handler.Featured)
			r.Get("/catalog/movies", router.handler.Movies)
			r.Get("/catalog/shows", router.handler.Shows)
			r.Get("/catalog/now-playing", router.handler.NowPlaying)
			r.Get("/catalog/collections/{collection}", router.handler.Collection)
			r.Get("/catalog/search", router.handler.Search)
			r.Get("/catalog/services/{service}", router.handler.ByService)
			r.With(router.chiMiddleware.RateLimitReload()).Post("/catalog/reload", router.handler.Reload)

			r.Get("/services", router.handler.Services)
			r.Get("/categories", router.handler.Categories)

			r.Route("/content/{id}", func(r chi.Router) {
				r.Get("/", router.handler.Content)
				r.Get("/stats", router.handler.ContentStats)
				r.Group(func(r chi.Router) {
					r.Use(router.auth.Require)
					r.Post("/like", router.handler.LikeContent)
					r.Delete("/like", router.handler.UnlikeContent)
					r.Post("/watched", router.handler.WatchContent)
					r.Delete("/watched", router.handler.UnwatchContent)
				})
			})

			r.Route("/episodes/{id}", func(r chi.Router) {
				r.Get("/stats", router.handler.EpisodeStats)
				r.Group(func(r chi.Router) {
					r.Use(router.auth.Require)
					r.Post("/like", router.handler.LikeEpisode)
					r.Delete("/like", router.handler.UnlikeEpisode)
					r.Post("/watched", router.handler.WatchEpisode)
					r.Delete("/watched", router.handler.UnwatchEpisode)
				})
			})
		})

		// ========================
		// Signed-in User
		// ========================
		r.Route("/me", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))
			r.Use(router.auth.Require)

			r.Get("/", router.handler.Me)
			r.Get("/list", router.handler.MyList)
			r.Post("/list", router.handler.AddToMyList)
			r.Delete("/list/{contentID}", router.handler.RemoveFromMyList)
			r.Get("/comments", router.handler.Comments)
			r.Post("/comments", router.handler.AddComment)
			r.Get("/subscriptions", router.handler.Subscriptions)
		})
	})

	return r
}
