// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/api"
	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/config"
	"github.com/tomtom215/unistream/internal/events"
	"github.com/tomtom215/unistream/internal/interaction"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/supervisor"
	"github.com/tomtom215/unistream/internal/supervisor/services"
	ws "github.com/tomtom215/unistream/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage_path", cfg.Storage.Path).
		Bool("storage_in_memory", cfg.Storage.InMemory).
		Int("page_limit", cfg.Catalog.PageLimit).
		Msg("Starting Unistream with supervisor tree")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// === DATA ===

	st, err := openStorage(cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := st.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	up := buildUpstream(cfg.TMDB)
	defer up.Close()

	// === CATALOG ===

	assembler := catalog.NewAssembler(up.fetcher, catalog.AssemblerConfig{
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Rand:         catalog.NewRandSource(cfg.Catalog.RandomSeed),
	})
	catalogStore := catalog.NewStore(assembler, catalog.WithPageLimit(cfg.Catalog.PageLimit))

	// === USERS ===

	authn := auth.NewMockAuthenticator(st.store, auth.WithLatency(cfg.Security.AuthLatency))
	tokens, err := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	accounts := account.NewService(authn, tokens, st.store)

	tracker, err := interaction.NewTracker(ctx, st.store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load interaction state")
	}

	// === MESSAGING ===

	wsHub := ws.NewHub()
	bus, err := events.NewBus(events.DefaultBusConfig(), logging.WithComponent("events"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	bus.SubscribeCatalogLoaded("websocket-broadcast", wsHub.OnCatalogLoaded)
	catalogStore.Observe(bus.PublishCatalogLoad)

	// === API ===

	handler := api.NewHandler(cfg, catalogStore, assembler, accounts, tracker, wsHub)
	if up.breaker != nil {
		handler.SetBreaker(up.breaker)
	}
	if up.cache != nil {
		handler.SetCache(up.cache)
	}
	chiMw := api.NewChiMiddlewareFromServer(cfg.Server.CORSOrigins, cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	authMw := api.NewAuthMiddleware(tokens, accounts)
	router := api.NewRouter(handler, chiMw, authMw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if st.durable() {
		tree.AddDataService(services.NewBadgerGCService(st.store, 0, logging.WithComponent("badger-gc")))
	}

	tree.AddCatalogService(services.NewCatalogRefreshService(catalogStore, services.CatalogRefreshConfig{
		LoadOnStart:     cfg.Catalog.LoadOnStart,
		RefreshInterval: cfg.Catalog.RefreshInterval,
	}, logging.WithComponent("catalog-refresh")))

	tree.AddMessagingService(services.NewEventBusService(bus))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === RUN ===

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Serve returns once the root supervisor has stopped every layer.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
