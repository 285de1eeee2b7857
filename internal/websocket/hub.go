// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/events"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeCatalogUpdated = "catalog_updated"
	MessageTypeCatalogFailed  = "catalog_failed"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err() so a supervisor can restart it cleanly.
//
// Shutdown is checked first, then client lifecycle events, then
// broadcasts, so client state is settled before any message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs the shutdown.
// ctx.Err() is not logged as an error; cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClients returns clients in ID order. Caller holds mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers message in client ID order. Clients whose
// send buffer is full are dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastJSON queues a message for all connected clients. It never
// blocks; the message is dropped when the queue is full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// CatalogUpdatedData is sent with catalog_updated.
type CatalogUpdatedData struct {
	Timestamp  string `json:"timestamp"`
	LoadedAt   string `json:"loaded_at"`
	Movies     int    `json:"movies"`
	TVShows    int    `json:"tv_shows"`
	NowPlaying int    `json:"now_playing"`
	Featured   int    `json:"featured"`
	DurationMs int64  `json:"duration_ms"`
}

// CatalogFailedData is sent with catalog_failed.
type CatalogFailedData struct {
	Timestamp  string `json:"timestamp"`
	Error      string `json:"error"`
	DurationMs int64  `json:"duration_ms"`
}

// OnCatalogLoad is a catalog.Observer that announces each completed load.
func (h *Hub) OnCatalogLoad(ev catalog.LoadEvent) {
	_ = h.OnCatalogLoaded(context.Background(), events.FromLoadEvent(ev))
}

// OnCatalogLoaded is an events.CatalogLoadedHandler. Broadcasting never
// fails; a full queue drops the message.
func (h *Hub) OnCatalogLoaded(_ context.Context, ev events.CatalogLoaded) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if ev.Failed() {
		h.BroadcastJSON(MessageTypeCatalogFailed, CatalogFailedData{
			Timestamp:  now,
			Error:      ev.Error,
			DurationMs: ev.DurationMs,
		})
		return nil
	}
	h.BroadcastJSON(MessageTypeCatalogUpdated, CatalogUpdatedData{
		Timestamp:  now,
		LoadedAt:   ev.LoadedAt.UTC().Format(time.RFC3339),
		Movies:     ev.Movies,
		TVShows:    ev.TVShows,
		NowPlaying: ev.NowPlaying,
		Featured:   ev.Featured,
		DurationMs: ev.DurationMs,
	})
	logging.Info().Int("clients", h.GetClientCount()).Msg("broadcast catalog_updated")
	return nil
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
