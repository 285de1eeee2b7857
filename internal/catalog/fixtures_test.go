// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/tmdb"
)

// fakeFetcher serves canned JSON per path. Unknown paths answer 404.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeFetcher) on(path, body string) *fakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
	return f
}

func (f *fakeFetcher) fail(path string, err error) *fakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
	return f
}

func (f *fakeFetcher) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeFetcher) Fetch(_ context.Context, path string, _ url.Values, out any) error {
	f.mu.Lock()
	f.calls[path]++
	body, ok := f.bodies[path]
	err := f.errs[path]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return &tmdb.StatusError{Path: path, StatusCode: http.StatusNotFound}
	}
	return json.Unmarshal([]byte(body), out)
}

// constRand always draws zero, so seeded likes sit at their minimum.
type constRand struct{}

func (constRand) IntN(int) int { return 0 }

const (
	moviePageJSON = `{"page":1,"results":[
		{"id":101,"title":"Rocket Dawn","overview":"A crew heads out.","poster_path":"/p101.jpg","backdrop_path":"/b101.jpg","vote_count":1200,"release_date":"2026-05-01","genre_ids":[878,28]},
		{"id":102,"title":"Quiet Field","overview":"A farmer's story.","poster_path":"/p102.jpg","backdrop_path":"","vote_count":80,"release_date":"2026-04-11","genre_ids":[18]},
		{"id":103,"title":"Star Wars: Outpost","overview":"Far away.","poster_path":"/p103.jpg","backdrop_path":"/b103.jpg","vote_count":9000,"release_date":"2026-06-20","genre_ids":[12]}
	],"total_pages":1,"total_results":3}`

	showPageJSON = `{"page":1,"results":[
		{"id":201,"name":"Harbor Lights","overview":"Dock workers.","poster_path":"/p201.jpg","backdrop_path":"/b201.jpg","vote_count":300,"first_air_date":"2025-09-01","genre_ids":[80]},
		{"id":202,"name":"Tiny Town","overview":"Cartoon mayhem.","poster_path":"/p202.jpg","backdrop_path":"/b202.jpg","vote_count":45,"first_air_date":"2024-01-15","genre_ids":[16]}
	],"total_pages":1,"total_results":2}`

	emptyProvidersJSON = `{"id":0,"results":{}}`
)

// catalogFixture wires a fake provider with two movie pages and a show page.
func catalogFixture() *fakeFetcher {
	f := newFakeFetcher().
		on(string(EndpointTrendingMovies), moviePageJSON).
		on(string(EndpointNowPlaying), moviePageJSON).
		on(string(EndpointTrendingShows), showPageJSON).
		on("/movie/101/watch/providers", `{"id":101,"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}]}}}`).
		on("/movie/102/watch/providers", emptyProvidersJSON).
		on("/movie/103/watch/providers", emptyProvidersJSON).
		on("/tv/201/watch/providers", `{"id":201,"results":{"GB":{"flatrate":[{"provider_id":384}]}}}`).
		on("/tv/202/watch/providers", emptyProvidersJSON).
		on("/tv/201", `{"id":201,"name":"Harbor Lights","seasons":[{"season_number":1},{"season_number":2}]}`).
		on("/tv/201/season/1", `{"season_number":1,"episodes":[{"name":"Pilot","overview":"It starts.","episode_number":1},{"name":"Tides","overview":"It continues.","episode_number":2}]}`).
		on("/tv/201/season/2", `{"season_number":2,"episodes":[{"name":"Return","overview":"Back again.","episode_number":1}]}`)
	// /tv/202 is deliberately absent: that show gets placeholders.
	return f
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}
