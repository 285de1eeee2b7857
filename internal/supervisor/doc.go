// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package supervisor provides process supervision for Unistream using suture v4.

The tree isolates failures by layer:

	RootSupervisor ("unistream")
	├── DataSupervisor ("data-layer")
	│   └── BadgerGCService (durable storage only)
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogRefreshService
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the refresh loop restarts only that loop. Connected WebSocket
clients and in-flight API requests are unaffected.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCatalogService(services.NewCatalogRefreshService(store, refreshCfg, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Past FailureThreshold the supervisor waits FailureBackoff before the next
restart. Supervisor events are logged through sutureslog, which the
server points at the zerolog-backed slog handler.

Return behavior of a service:
  - nil: stopped cleanly, not restarted
  - error: crashed, restarted
  - ctx.Err(): shutdown requested

# Debugging Shutdown

UnstoppedServiceReport lists services that ignored cancellation for
longer than ShutdownTimeout.
*/
package supervisor
