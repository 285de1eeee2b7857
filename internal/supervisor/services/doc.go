// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package services provides suture.Service wrappers for Unistream components.

Each wrapper translates a component's lifecycle into suture's
context-aware Serve pattern and names itself through fmt.Stringer:

  - HTTPServerService: the API server, with graceful shutdown
  - WebSocketHubService: the catalog event hub
  - EventBusService: the in-process Watermill router
  - CatalogRefreshService: startup load plus periodic refresh
  - BadgerGCService: periodic value log garbage collection

The wrappers depend on small interfaces (HTTPServer, ContextHub,
EventRouter, CatalogLoader, GarbageCollector) rather than concrete
types, which keeps this package free of import cycles and lets the
tests use doubles.
*/
package services
