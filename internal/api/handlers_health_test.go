// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/unistream/internal/catalog"
	ws "github.com/tomtom215/unistream/internal/websocket"
)

type fixedBreaker string

func (b fixedBreaker) State() string { return string(b) }

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(env *testEnv)
		want    string
		loaded  bool
		lastErr bool
	}{
		{
			name:   "loaded",
			setup:  func(*testEnv) {},
			want:   HealthStatusHealthy,
			loaded: true,
		},
		{
			name: "never loaded",
			setup: func(env *testEnv) {
				env.handler.catalog = catalog.NewStore(env.pages)
			},
			want: HealthStatusStarting,
		},
		{
			name: "first load failed",
			setup: func(env *testEnv) {
				env.pages.errs[catalog.EndpointTrendingShows] = errUpstream
				store := catalog.NewStore(env.pages)
				store.Load(context.Background())
				env.handler.catalog = store
			},
			want:    HealthStatusDegraded,
			lastErr: true,
		},
		{
			name: "breaker open",
			setup: func(env *testEnv) {
				env.handler.SetBreaker(fixedBreaker("open"))
			},
			want:   HealthStatusDegraded,
			loaded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			tt.setup(env)

			rec := env.do(http.MethodGet, "/api/v1/health", nil, "")
			checkStatus(t, rec, http.StatusOK)
			var health HealthStatus
			decodeData(t, rec, &health)
			if health.Status != tt.want {
				t.Errorf("status = %q, want %q", health.Status, tt.want)
			}
			if health.CatalogLoaded != tt.loaded {
				t.Errorf("catalog_loaded = %v, want %v", health.CatalogLoaded, tt.loaded)
			}
			if (health.LastError != "") != tt.lastErr {
				t.Errorf("last_error = %q", health.LastError)
			}
		})
	}
}

func TestHealth_SecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := newRequest(http.MethodGet, "/api/v1/health")
	req.Header.Set("X-Request-ID", "probe-1")
	rec := serve(env, req)
	checkStatus(t, rec, http.StatusOK)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "probe-1" {
		t.Errorf("X-Request-ID = %q, want probe-1", got)
	}
	if env := decodeEnvelope(t, rec); env.Meta == nil || env.Meta.RequestID != "probe-1" {
		t.Errorf("meta request_id = %+v", env.Meta)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.do(http.MethodGet, "/api/v1/catalog", nil, "")
	rec := env.do(http.MethodGet, "/metrics", nil, "")
	checkStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	checkErrorCode(t, env.do(http.MethodGet, "/api/v1/ws", nil, ""), http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestWebSocket_ReceivesCatalogUpdates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.RunWithContext(ctx) }()
	env.handler.wsHub = hub
	env.catalog.Observe(hub.OnCatalogLoad)

	server := httptest.NewServer(env.server)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !env.catalog.Load(context.Background()) {
		t.Fatal("load skipped")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ws.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != ws.MessageTypeCatalogUpdated {
		t.Errorf("type = %q, want %q", msg.Type, ws.MessageTypeCatalogUpdated)
	}
}
