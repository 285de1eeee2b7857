// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/models"
)

// storeFactories lets every test run against both implementations.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"badger": func() Store {
			s, err := OpenBadger("", true)
			if err != nil {
				t.Fatalf("open in-memory badger: %v", err)
			}
			return s
		},
	}
}

func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func TestStore_AuthState(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id := uuid.New()

		got, err := s.LoadAuthState(ctx, id)
		if err != nil || got {
			t.Fatalf("absent auth state = (%v, %v), want (false, nil)", got, err)
		}
		if err := s.SaveAuthState(ctx, id, true); err != nil {
			t.Fatalf("SaveAuthState: %v", err)
		}
		got, err = s.LoadAuthState(ctx, id)
		if err != nil || !got {
			t.Errorf("auth state = (%v, %v), want (true, nil)", got, err)
		}
	})
}

func TestStore_User(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		user := &models.User{
			ID:                  uuid.New(),
			Username:            "ada",
			Email:               "ada@example.com",
			Provider:            "email",
			JoinDate:            time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ActiveSubscriptions: models.DefaultSubscriptions(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
		}

		if _, err := s.LoadUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("absent user err = %v, want ErrNotFound", err)
		}
		if err := s.SaveUser(ctx, user); err != nil {
			t.Fatalf("SaveUser: %v", err)
		}
		got, err := s.LoadUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("LoadUser: %v", err)
		}
		if got.Username != "ada" || !got.JoinDate.Equal(user.JoinDate) || len(got.ActiveSubscriptions) != 8 {
			t.Errorf("loaded user = %+v", got)
		}
	})
}

func TestStore_MyListRelinksEpisodes(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		userID := uuid.New()

		list, err := s.LoadMyList(ctx, userID)
		if err != nil || list == nil || len(list) != 0 {
			t.Fatalf("absent list = (%v, %v), want empty", list, err)
		}

		show := models.Content{ID: uuid.New(), Title: "Harbor Lights", IsSeries: true}
		show.Episodes = []*models.Episode{{ID: uuid.New(), Title: "Pilot", SeasonNumber: 1, EpisodeNumber: 1}}
		show.LinkEpisodes()

		if err := s.SaveMyList(ctx, userID, []models.Content{show}); err != nil {
			t.Fatalf("SaveMyList: %v", err)
		}
		list, err = s.LoadMyList(ctx, userID)
		if err != nil || len(list) != 1 {
			t.Fatalf("LoadMyList = (%v, %v)", list, err)
		}
		ep := list[0].Episodes[0]
		if ep.Parent != &list[0] {
			t.Error("episode parent not relinked after load")
		}
		if ep.ParentID != show.ID {
			t.Errorf("parent id = %s, want %s", ep.ParentID, show.ID)
		}
	})
}

func TestStore_Comments(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		userID := uuid.New()
		epID := uuid.New()
		comments := []models.Comment{
			{ID: uuid.New(), Username: "ada", Text: "Great", Timestamp: time.Now().UTC(), ContentID: uuid.New()},
			{ID: uuid.New(), Username: "ada", Text: "Episode note", Timestamp: time.Now().UTC(), ContentID: uuid.New(), EpisodeID: &epID},
		}

		if err := s.SaveComments(ctx, userID, comments); err != nil {
			t.Fatalf("SaveComments: %v", err)
		}
		got, err := s.LoadComments(ctx, userID)
		if err != nil || len(got) != 2 {
			t.Fatalf("LoadComments = (%v, %v)", got, err)
		}
		if got[1].EpisodeID == nil || *got[1].EpisodeID != epID {
			t.Error("episode id lost in round trip")
		}
	})
}

func TestStore_Interactions(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		sets, err := s.LoadInteractions(ctx)
		if err != nil || sets.ContentLikes == nil || sets.EpisodeViews == nil {
			t.Fatalf("absent interactions = (%+v, %v)", sets, err)
		}

		contentID, u1, u2 := uuid.New(), uuid.New(), uuid.New()
		sets.ContentLikes[contentID] = []uuid.UUID{u1, u2}
		if err := s.SaveInteractions(ctx, sets); err != nil {
			t.Fatalf("SaveInteractions: %v", err)
		}

		got, err := s.LoadInteractions(ctx)
		if err != nil {
			t.Fatalf("LoadInteractions: %v", err)
		}
		likes := got.ContentLikes[contentID]
		if len(likes) != 2 || likes[0] != u1 || likes[1] != u2 {
			t.Errorf("likes = %v, want [%s %s]", likes, u1, u2)
		}
		if got.ContentViews == nil {
			t.Error("empty maps should be non-nil after load")
		}
	})
}

func TestStore_Credential(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		if _, err := s.LoadCredential(ctx, "ada@example.com"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("absent credential err = %v", err)
		}
		if err := s.SaveCredential(ctx, " Ada@Example.com ", []byte("hash")); err != nil {
			t.Fatalf("SaveCredential: %v", err)
		}
		got, err := s.LoadCredential(ctx, "ada@example.com")
		if err != nil || string(got) != "hash" {
			t.Errorf("credential = (%q, %v)", got, err)
		}
	})
}

func TestStore_ClearIsPerUser(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		alice, bob := uuid.New(), uuid.New()

		for _, id := range []uuid.UUID{alice, bob} {
			_ = s.SaveAuthState(ctx, id, true)
			_ = s.SaveUser(ctx, &models.User{ID: id, Username: id.String()})
			_ = s.SaveMyList(ctx, id, []models.Content{{ID: uuid.New()}})
			_ = s.SaveComments(ctx, id, []models.Comment{{ID: uuid.New()}})
		}
		_ = s.SaveCredential(ctx, "alice@example.com", []byte("h"))

		if err := s.Clear(ctx, alice); err != nil {
			t.Fatalf("Clear: %v", err)
		}

		if ok, _ := s.LoadAuthState(ctx, alice); ok {
			t.Error("alice auth state survived Clear")
		}
		if _, err := s.LoadUser(ctx, alice); !errors.Is(err, ErrNotFound) {
			t.Error("alice user survived Clear")
		}
		if list, _ := s.LoadMyList(ctx, alice); len(list) != 0 {
			t.Error("alice list survived Clear")
		}
		if comments, _ := s.LoadComments(ctx, alice); len(comments) != 0 {
			t.Error("alice comments survived Clear")
		}
		if _, err := s.LoadCredential(ctx, "alice@example.com"); err != nil {
			t.Error("credential should survive Clear")
		}

		if ok, _ := s.LoadAuthState(ctx, bob); !ok {
			t.Error("bob auth state removed by alice's Clear")
		}
		if list, _ := s.LoadMyList(ctx, bob); len(list) != 1 {
			t.Error("bob list removed by alice's Clear")
		}
	})
}

func TestBadgerStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	id := uuid.New()

	s, err := OpenBadger(dir, false)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	if err := s.SaveUser(ctx, &models.User{ID: id, Username: "persisted"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenBadger(dir, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	user, err := s.LoadUser(ctx, id)
	if err != nil || user.Username != "persisted" {
		t.Errorf("after reopen = (%+v, %v)", user, err)
	}
	if err := s.RunGC(0.5); err != nil {
		t.Errorf("RunGC: %v", err)
	}
}

func TestBadgerStore_GCInMemory(t *testing.T) {
	s, err := OpenBadger("", true)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer s.Close()
	if err := s.RunGC(0.5); err != nil {
		t.Errorf("RunGC in memory mode should be a no-op, got %v", err)
	}
}
