// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package websocket pushes catalog refresh results to connected clients.

It uses gorilla/websocket with a hub-and-spoke layout. The Hub owns the
client set and fans messages out; each Client runs a readPump that answers
pings and a writePump that encodes frames with go-json and keeps the
connection alive.

Message Types:

  - catalog_updated: a load finished; carries list sizes and duration
  - catalog_failed: a load failed; carries the error text
  - ping / pong: client-initiated keepalive

In the server the hub consumes catalog.loaded from the event bus; it can
also observe a catalog.Store directly:

	hub := websocket.NewHub()
	bus.SubscribeCatalogLoaded("websocket-broadcast", hub.OnCatalogLoaded)
	// or: store.Observe(hub.OnCatalogLoad)
	go hub.RunWithContext(ctx)

Broadcasts never block. When the hub queue or a client's buffer is full the
message (or the slow client) is dropped.
*/
package websocket
