// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/config"
	"github.com/tomtom215/unistream/internal/interaction"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/persistence"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

var errUpstream = errors.New("upstream unavailable")

// stubPages serves fixed pages per endpoint. A non-nil gate blocks
// trending-movie fetches until it is closed.
type stubPages struct {
	mu    sync.Mutex
	pages map[catalog.Endpoint][]*models.Content
	errs  map[catalog.Endpoint]error
	gate  chan struct{}
}

func (s *stubPages) FetchPage(_ context.Context, e catalog.Endpoint, _ int) ([]*models.Content, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil && e == catalog.EndpointTrendingMovies {
		<-gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[e]; err != nil {
		return nil, err
	}
	return s.pages[e], nil
}

type testEnv struct {
	t        *testing.T
	pages    *stubPages
	catalog  *catalog.Store
	accounts *account.Service
	tracker  *interaction.Tracker
	handler  *Handler
	server   http.Handler

	movie   *models.Content
	show    *models.Content
	episode *models.Episode
	film    *models.Content
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	movie := &models.Content{ID: uuid.New(), Title: "Heat", Service: models.ServiceNetflix, Category: models.CategoryAction}
	show := &models.Content{ID: uuid.New(), Title: "Dark", Service: models.ServiceHulu, Category: models.CategorySciFi, IsSeries: true}
	episode := &models.Episode{ID: uuid.New(), Title: "Secrets", SeasonNumber: 1, EpisodeNumber: 1}
	show.Episodes = []*models.Episode{episode}
	show.LinkEpisodes()
	film := &models.Content{ID: uuid.New(), Title: "Dune", Service: models.ServiceInTheaters, Category: models.CategorySciFi}

	pages := &stubPages{
		pages: map[catalog.Endpoint][]*models.Content{
			catalog.EndpointTrendingMovies: {movie},
			catalog.EndpointTrendingShows:  {show},
			catalog.EndpointNowPlaying:     {film},
			catalog.EndpointPopularMovies:  {movie, film},
		},
		errs: make(map[catalog.Endpoint]error),
	}
	store := catalog.NewStore(pages)
	if !store.Load(ctx) {
		t.Fatal("initial catalog load was skipped")
	}

	persist := persistence.NewMemoryStore()
	authn := auth.NewMockAuthenticator(persist, auth.WithBcryptCost(bcrypt.MinCost))
	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	accounts := account.NewService(authn, tokens, persist)
	tracker, err := interaction.NewTracker(ctx, persist)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	cfg := &config.Config{}
	cfg.Catalog.PageLimit = 5
	h := NewHandler(cfg, store, pages, accounts, tracker, nil)
	router := NewRouter(h, NewChiMiddlewareFromServer(nil, 0, 0), NewAuthMiddleware(tokens, accounts))

	return &testEnv{
		t:        t,
		pages:    pages,
		catalog:  store,
		accounts: accounts,
		tracker:  tracker,
		handler:  h,
		server:   router.SetupChi(),
		movie:    movie,
		show:     show,
		episode:  episode,
		film:     film,
	}
}

// do performs a request against the router. body is JSON-encoded unless
// it is already a string.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// signIn returns a token for a fresh email account.
func (e *testEnv) signIn(email string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": email, "password": "secret123"}, "")
	checkStatus(e.t, rec, http.StatusOK)
	var session account.Session
	decodeData(e.t, rec, &session)
	if session.Token == "" {
		e.t.Fatal("sign-in returned an empty token")
	}
	return session.Token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return env
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	checkStatus(t, rec, status)
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

func contentTitles(list []*models.Content) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Title
	}
	return out
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}
