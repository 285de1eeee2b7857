// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/events"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 256)}
}

// waitForClients polls until the hub reports n clients.
func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Fatal("NewHub left fields uninitialized")
	}
	if cap(hub.broadcast) != 256 {
		t.Errorf("broadcast capacity = %d, want 256", cap(hub.broadcast))
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("GetClientCount() = %d, want 0", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	a, b := createTestClient(hub), createTestClient(hub)

	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.Unregister <- a
	waitForClients(t, hub, 1)

	if _, ok := <-a.send; ok {
		t.Error("unregistered client's send channel is still open")
	}

	// Unregistering an unknown client is a no-op.
	hub.Unregister <- createTestClient(hub)
	waitForClients(t, hub, 1)
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := startHub(t)
	clients := []*Client{createTestClient(hub), createTestClient(hub), createTestClient(hub)}
	for _, c := range clients {
		hub.Register <- c
	}
	waitForClients(t, hub, len(clients))

	hub.BroadcastJSON("custom", map[string]int{"n": 1})

	for i, c := range clients {
		msg := receive(t, c)
		if msg.Type != "custom" {
			t.Errorf("client %d got type %q", i, msg.Type)
		}
	}
}

func TestHub_BroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub() // not running, so nothing drains the queue
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.BroadcastJSON("fill", i)
	}

	done := make(chan struct{})
	go func() {
		hub.BroadcastJSON("overflow", nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastJSON blocked on a full queue")
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("queue length = %d", len(hub.broadcast))
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message)} // unbuffered, never read
	fast := createTestClient(hub)
	hub.clients[slow] = true
	hub.clients[fast] = true

	hub.broadcastToClients(Message{Type: "x"})

	if hub.GetClientCount() != 1 {
		t.Fatalf("GetClientCount() = %d, want 1", hub.GetClientCount())
	}
	if _, ok := hub.clients[fast]; !ok {
		t.Error("fast client was dropped")
	}
	if _, ok := <-slow.send; ok {
		t.Error("slow client's channel not closed")
	}
}

func TestHub_OnCatalogLoad(t *testing.T) {
	hub := startHub(t)
	c := createTestClient(hub)
	hub.Register <- c
	waitForClients(t, hub, 1)

	snap := catalog.Snapshot{
		Movies:   []*models.Content{{Title: "A"}, {Title: "B"}},
		TVShows:  []*models.Content{{Title: "C"}},
		Featured: []*models.Content{{Title: "A"}},
		LoadedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	hub.OnCatalogLoad(catalog.LoadEvent{Snapshot: snap, Duration: 1500 * time.Millisecond})

	msg := receive(t, c)
	if msg.Type != MessageTypeCatalogUpdated {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeCatalogUpdated)
	}
	data, ok := msg.Data.(CatalogUpdatedData)
	if !ok {
		t.Fatalf("data = %T", msg.Data)
	}
	if data.Movies != 2 || data.TVShows != 1 || data.NowPlaying != 0 || data.Featured != 1 {
		t.Errorf("counts = %+v", data)
	}
	if data.LoadedAt != "2026-05-01T08:00:00Z" || data.DurationMs != 1500 {
		t.Errorf("data = %+v", data)
	}

	hub.OnCatalogLoad(catalog.LoadEvent{Err: errors.New("tmdb down"), Duration: time.Second})
	msg = receive(t, c)
	if msg.Type != MessageTypeCatalogFailed {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeCatalogFailed)
	}
	if failed := msg.Data.(CatalogFailedData); failed.Error != "tmdb down" {
		t.Errorf("Error = %q", failed.Error)
	}
}

func TestHub_OnCatalogLoaded(t *testing.T) {
	hub := startHub(t)
	c := createTestClient(hub)
	hub.Register <- c
	waitForClients(t, hub, 1)

	err := hub.OnCatalogLoaded(context.Background(), events.CatalogLoaded{
		LoadedAt:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		Movies:     20,
		NowPlaying: 20,
		DurationMs: 42,
	})
	if err != nil {
		t.Fatalf("OnCatalogLoaded() error = %v", err)
	}

	msg := receive(t, c)
	data, ok := msg.Data.(CatalogUpdatedData)
	if msg.Type != MessageTypeCatalogUpdated || !ok {
		t.Fatalf("message = %+v", msg)
	}
	if data.Movies != 20 || data.NowPlaying != 20 || data.DurationMs != 42 {
		t.Errorf("data = %+v", data)
	}
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := startHub(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := createTestClient(hub)
			hub.Register <- c
			hub.BroadcastJSON("tick", nil)
			hub.Unregister <- c
		}()
	}
	wg.Wait()
	waitForClients(t, hub, 0)
}

func TestHub_RunWithContext(t *testing.T) {
	t.Run("shuts down on context cancellation", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		c := createTestClient(hub)
		hub.Register <- c
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("RunWithContext did not return after context cancellation")
		}
		if hub.GetClientCount() != 0 {
			t.Error("clients left open after shutdown")
		}
		if _, ok := <-c.send; ok {
			t.Error("client channel not closed on shutdown")
		}
	})

	t.Run("shuts down on context deadline", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		select {
		case err := <-runAsync(hub, ctx):
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected context.DeadlineExceeded, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("RunWithContext did not return after deadline")
		}
	})
}

func runAsync(hub *Hub, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()
	return errCh
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()

	tests := []struct {
		name string
		ctx  context.Context
		want ShutdownReason
	}{
		{"canceled", canceled, ShutdownReasonContextCanceled},
		{"deadline", expired, ShutdownReasonContextDeadline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getShutdownReason(tt.ctx); got != tt.want {
				t.Errorf("getShutdownReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypeCatalogFailed, Data: CatalogFailedData{Error: "boom"}})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}
	var decoded struct {
		Type string            `json:"type"`
		Data CatalogFailedData `json:"data"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Type != MessageTypeCatalogFailed || decoded.Data.Error != "boom" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func BenchmarkHub_BroadcastJSON(b *testing.B) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hub.BroadcastJSON("bench", i)
	}
}
