// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*WebSocketHubService)(nil)

type fakeHub struct {
	err  error
	runs atomic.Int32
}

func (h *fakeHub) RunWithContext(ctx context.Context) error {
	h.runs.Add(1)
	if h.err != nil {
		return h.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService_Serve(t *testing.T) {
	tests := []struct {
		name    string
		hubErr  error
		timeout time.Duration
		want    error
	}{
		{"deadline", nil, 30 * time.Millisecond, context.DeadlineExceeded},
		{"hub error", errors.New("hub failed"), time.Second, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := &fakeHub{err: tt.hubErr}
			svc := NewWebSocketHubService(hub)
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			err := svc.Serve(ctx)
			want := tt.want
			if want == nil {
				want = tt.hubErr
			}
			if !errors.Is(err, want) {
				t.Errorf("Serve() = %v, want %v", err, want)
			}
			if hub.runs.Load() != 1 {
				t.Errorf("runs = %d, want 1", hub.runs.Load())
			}
		})
	}
}

func TestWebSocketHubService_String(t *testing.T) {
	if got := NewWebSocketHubService(&fakeHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q, want websocket-hub", got)
	}
}
