// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package main is the entry point for the Unistream server.

Unistream aggregates trending, popular and now-playing titles from the
TMDB metadata API into a single catalog, resolves which streaming
services carry each title, and serves it over a REST API together with
per-user state (sign-in, My List, comments, likes and watch history).

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("unistream")
	├── DataSupervisor ("data-layer")
	│   └── BadgerDB value-log GC (on-disk storage only)
	├── CatalogSupervisor ("catalog-layer")
	│   └── Catalog refresh (load on start + periodic reload)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event bus (Watermill router, catalog.loaded)
	│   └── WebSocket Hub (catalog_updated broadcasts)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON/console output modes
 3. Storage: BadgerDB for users, credentials, lists and interactions
 4. Upstream: TMDB client wrapped by circuit breaker and response cache
 5. Catalog: assembler and snapshot store
 6. Accounts: mock authenticator, JWT token manager, interaction tracker
 7. Messaging: event bus fed by catalog loads, WebSocket hub subscribed
 8. HTTP Server: Chi router with middleware stack
 9. Supervisor Tree: services registered per layer, then served

# Configuration

Priority: Environment variables > Config file > Defaults

	TMDB_API_TOKEN=<v4 read token>   # Required
	JWT_SECRET=<32+ chars>           # Required
	HTTP_PORT=8080
	STORAGE_PATH=/data/unistream
	STORAGE_IN_MEMORY=false
	CATALOG_PAGE_LIMIT=20
	CATALOG_REFRESH_INTERVAL=30m
	LOG_LEVEL=info                   # trace, debug, info, warn, error
	LOG_FORMAT=json                  # json or console

CONFIG_PATH points at an explicit YAML file.

# Signal Handling

On SIGINT or SIGTERM the root context is canceled and the supervisor
stops each layer: the HTTP server drains in-flight requests within
HTTP_SHUTDOWN_TIMEOUT, WebSocket clients are closed, and BadgerDB is closed
once the tree has returned.

# Usage

	export TMDB_API_TOKEN=xxx
	export JWT_SECRET=$(openssl rand -base64 32)
	export STORAGE_IN_MEMORY=true
	go run ./cmd/server

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/catalog: Catalog assembly and snapshots
*/
package main
