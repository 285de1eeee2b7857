// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// scriptedFetcher answers from a fixed body or error and counts calls.
type scriptedFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	body  string
	err   error
}

func (f *scriptedFetcher) Fetch(_ context.Context, path string, _ url.Values, out any) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[path]++
	body, err := f.body, f.err
	f.mu.Unlock()

	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *scriptedFetcher) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	inner := &scriptedFetcher{err: &StatusError{Path: "/movie/popular", StatusCode: http.StatusInternalServerError}}
	cbc := NewCircuitBreakerClient(inner, "test-opens")

	var out map[string]any
	for i := 0; i < 10; i++ {
		err := cbc.Fetch(context.Background(), "/movie/popular", nil, &out)
		checkErrorIs(t, err, ErrNetwork)
	}
	checkStringEqual(t, "state", cbc.State(), "open")

	err := cbc.Fetch(context.Background(), "/movie/popular", nil, &out)
	checkErrorIs(t, err, ErrNetwork)
	checkIntEqual(t, "calls reaching inner fetcher", inner.count("/movie/popular"), 10)
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &StatusError{StatusCode: http.StatusNotFound}},
		{"decoding", ErrDecoding},
		{"invalid", ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cbc := NewCircuitBreakerClient(&scriptedFetcher{err: tt.err}, "test-"+tt.name)
			var out map[string]any
			for i := 0; i < 20; i++ {
				_ = cbc.Fetch(context.Background(), "/tv/1", nil, &out)
			}
			checkStringEqual(t, "state", cbc.State(), "closed")
		})
	}
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cbc := NewCircuitBreakerClient(&scriptedFetcher{body: `{"id":7}`}, "test-success")
	var out struct {
		ID int `json:"id"`
	}
	checkNoError(t, cbc.Fetch(context.Background(), "/tv/7", nil, &out))
	checkIntEqual(t, "id", out.ID, 7)
}

func TestCountsAsHealthy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{&StatusError{StatusCode: 404}, true},
		{&StatusError{StatusCode: 429}, false},
		{&StatusError{StatusCode: 503}, false},
		{ErrNetwork, false},
		{context.Canceled, true},
		{errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		if got := countsAsHealthy(tt.err); got != tt.want {
			t.Errorf("countsAsHealthy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCachingClient_ReusesDetails(t *testing.T) {
	inner := &scriptedFetcher{body: `{"id":1399,"name":"Game of Thrones"}`}
	cc := NewCachingClient(inner, time.Minute, CacheDetails)
	defer cc.Close()

	for i := 0; i < 3; i++ {
		var out struct {
			Name string `json:"name"`
		}
		checkNoError(t, cc.Fetch(context.Background(), "/tv/1399", nil, &out))
		checkStringEqual(t, "name", out.Name, "Game of Thrones")
	}
	checkIntEqual(t, "inner calls", inner.count("/tv/1399"), 1)
}

func TestCachingClient_SkipsRefreshedCollections(t *testing.T) {
	inner := &scriptedFetcher{body: `{"page":1}`}
	cc := NewCachingClient(inner, time.Minute, CacheDetails)
	defer cc.Close()

	for _, path := range []string{"/trending/movie/week", "/movie/now_playing"} {
		var out map[string]any
		checkNoError(t, cc.Fetch(context.Background(), path, nil, &out))
		checkNoError(t, cc.Fetch(context.Background(), path, nil, &out))
		checkIntEqual(t, path, inner.count(path), 2)
	}
}

func TestCachingClient_DoesNotCacheFailures(t *testing.T) {
	inner := &scriptedFetcher{err: ErrNetwork}
	cc := NewCachingClient(inner, time.Minute, nil)
	defer cc.Close()

	var out map[string]any
	checkErrorIs(t, cc.Fetch(context.Background(), "/tv/1", nil, &out), ErrNetwork)

	inner.mu.Lock()
	inner.err = nil
	inner.body = `{"id":1}`
	inner.mu.Unlock()

	checkNoError(t, cc.Fetch(context.Background(), "/tv/1", nil, &out))
	checkIntEqual(t, "inner calls", inner.count("/tv/1"), 2)
}

func TestCachingClient_QueryIsPartOfKey(t *testing.T) {
	inner := &scriptedFetcher{body: `{"page":1}`}
	cc := NewCachingClient(inner, time.Minute, nil)
	defer cc.Close()

	var out map[string]any
	checkNoError(t, cc.Fetch(context.Background(), "/movie/popular", url.Values{"page": {"1"}}, &out))
	checkNoError(t, cc.Fetch(context.Background(), "/movie/popular", url.Values{"page": {"2"}}, &out))
	checkIntEqual(t, "inner calls", inner.count("/movie/popular"), 2)
}

func TestCachingClient_PurgeAndHitRate(t *testing.T) {
	inner := &scriptedFetcher{body: `{"id":66732}`}
	cc := NewCachingClient(inner, time.Minute, nil)
	defer cc.Close()

	var out map[string]any
	checkNoError(t, cc.Fetch(context.Background(), "/tv/66732/watch/providers", nil, &out))
	checkNoError(t, cc.Fetch(context.Background(), "/tv/66732/watch/providers", nil, &out))
	if rate := cc.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}

	cc.Purge()
	checkNoError(t, cc.Fetch(context.Background(), "/tv/66732/watch/providers", nil, &out))
	checkIntEqual(t, "inner calls", inner.count("/tv/66732/watch/providers"), 2)
}
