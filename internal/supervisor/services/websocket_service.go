// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package services

import (
	"context"
)

// ContextHub matches *websocket.Hub's RunWithContext method. It is an
// interface so this package does not import the websocket package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the hub that fans catalog_updated and
// catalog_failed events out to connected clients.
//
// Example usage:
//
//	hub := websocket.NewHub()
//	bus.SubscribeCatalogLoaded("websocket-broadcast", hub.OnCatalogLoaded)
//	tree.AddMessagingService(services.NewWebSocketHubService(hub))
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService creates a new WebSocket hub service wrapper.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service by delegating to the hub, which closes
// every client when ctx is canceled.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's log messages.
func (w *WebSocketHubService) String() string {
	return w.name
}
