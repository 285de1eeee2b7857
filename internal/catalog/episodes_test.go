// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/tmdb"
)

func seasonJSON(n int, episodes ...string) string {
	body := `{"season_number":` + strconv.Itoa(n) + `,"episodes":[`
	for i, name := range episodes {
		if i > 0 {
			body += ","
		}
		body += `{"name":"` + name + `","episode_number":` + strconv.Itoa(i+1) + `}`
	}
	return body + `]}`
}

func TestEpisodeAggregator_SkipsFailedSeason(t *testing.T) {
	before := testutil.ToFloat64(metrics.EpisodeSeasonFailures)

	f := newFakeFetcher().
		on("/tv/9", `{"id":9,"seasons":[{"season_number":1},{"season_number":2},{"season_number":3}]}`).
		on("/tv/9/season/1", seasonJSON(1, "S1E1", "S1E2")).
		fail("/tv/9/season/2", tmdb.ErrNetwork).
		on("/tv/9/season/3", seasonJSON(3, "S3E1", "S3E2", "S3E3"))

	parent := &models.Content{ID: uuid.New(), Title: "Show", IsSeries: true}
	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 9, parent)
	checkNoError(t, err)

	want := []struct{ season, number int }{{1, 1}, {1, 2}, {3, 1}, {3, 2}, {3, 3}}
	checkIntEqual(t, "episodes", len(eps), len(want))
	for i, w := range want {
		if i >= len(eps) {
			break
		}
		if eps[i].SeasonNumber != w.season || eps[i].EpisodeNumber != w.number {
			t.Errorf("episode %d = S%dE%d, want S%dE%d", i, eps[i].SeasonNumber, eps[i].EpisodeNumber, w.season, w.number)
		}
	}

	if got := testutil.ToFloat64(metrics.EpisodeSeasonFailures) - before; got != 1 {
		t.Errorf("season failure counter delta = %v, want 1", got)
	}
}

func TestEpisodeAggregator_SeasonCap(t *testing.T) {
	f := newFakeFetcher().
		on("/tv/9", `{"id":9,"seasons":[{"season_number":0},{"season_number":1},{"season_number":2},{"season_number":3},{"season_number":4}]}`).
		on("/tv/9/season/0", seasonJSON(0, "Special")).
		on("/tv/9/season/1", seasonJSON(1, "a")).
		on("/tv/9/season/2", seasonJSON(2, "b")).
		on("/tv/9/season/3", seasonJSON(3, "c")).
		on("/tv/9/season/4", seasonJSON(4, "d"))

	parent := &models.Content{ID: uuid.New()}
	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 9, parent)
	checkNoError(t, err)

	checkIntEqual(t, "episodes", len(eps), 3)
	for _, ep := range eps {
		if ep.SeasonNumber < 1 || ep.SeasonNumber > 3 {
			t.Errorf("unexpected season %d in result", ep.SeasonNumber)
		}
	}
	checkIntEqual(t, "season 0 fetches", f.count("/tv/9/season/0"), 0)
	checkIntEqual(t, "season 4 fetches", f.count("/tv/9/season/4"), 0)
}

func TestEpisodeAggregator_OutOfOrderSeasonListing(t *testing.T) {
	f := newFakeFetcher().
		on("/tv/12", `{"id":12,"seasons":[{"season_number":5},{"season_number":1},{"season_number":2},{"season_number":3}]}`).
		on("/tv/12/season/1", seasonJSON(1, "a")).
		on("/tv/12/season/2", seasonJSON(2, "b")).
		on("/tv/12/season/3", seasonJSON(3, "c")).
		on("/tv/12/season/5", seasonJSON(5, "e"))

	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 12, &models.Content{ID: uuid.New()})
	checkNoError(t, err)

	checkIntEqual(t, "episodes", len(eps), 3)
	for i, ep := range eps {
		checkIntEqual(t, "season", ep.SeasonNumber, i+1)
	}
	checkIntEqual(t, "season 5 fetches", f.count("/tv/12/season/5"), 0)
}

func TestEpisodeAggregator_LinksParent(t *testing.T) {
	f := newFakeFetcher().
		on("/tv/9", `{"id":9,"seasons":[{"season_number":1}]}`).
		on("/tv/9/season/1", `{"episodes":[{"name":"Pilot","overview":"Start","episode_number":1}]}`)

	parent := &models.Content{ID: uuid.New(), Title: "Show"}
	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 9, parent)
	checkNoError(t, err)
	checkIntEqual(t, "episodes", len(eps), 1)

	ep := eps[0]
	if ep.Parent != parent {
		t.Error("episode parent does not point at the content it was built for")
	}
	if ep.ParentID != parent.ID {
		t.Errorf("parent id = %s, want %s", ep.ParentID, parent.ID)
	}
	checkIntEqual(t, "season from request", ep.SeasonNumber, 1)
	checkStringEqual(t, "title", ep.Title, "Pilot")
	checkIntEqual(t, "likes", ep.Likes, episodeLikesMin)
	if ep.Comments == nil {
		t.Error("comments should be an empty list, not nil")
	}
}

func TestEpisodeAggregator_DetailFailure(t *testing.T) {
	f := newFakeFetcher().fail("/tv/9", tmdb.ErrNetwork)

	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 9, &models.Content{})
	if !errors.Is(err, tmdb.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if eps != nil {
		t.Errorf("expected no episodes, got %d", len(eps))
	}
}

func TestEpisodeAggregator_NoRegularSeasons(t *testing.T) {
	f := newFakeFetcher().on("/tv/9", `{"id":9,"seasons":[{"season_number":0}]}`)

	eps, err := NewEpisodeAggregator(f, constRand{}).Aggregate(context.Background(), 9, &models.Content{})
	checkNoError(t, err)
	if eps == nil || len(eps) != 0 {
		t.Errorf("expected empty non-nil list, got %v", eps)
	}
}

func TestEpisodeAggregator_Placeholders(t *testing.T) {
	parent := &models.Content{ID: uuid.New(), Title: "Tiny Town"}
	eps := NewEpisodeAggregator(newFakeFetcher(), constRand{}).Placeholders(parent)

	checkIntEqual(t, "placeholders", len(eps), PlaceholderEpisodes)
	for i, ep := range eps {
		checkStringEqual(t, "title", ep.Title, "Episode "+strconv.Itoa(i+1))
		checkStringEqual(t, "description", ep.Description, "A new exciting episode of Tiny Town")
		checkIntEqual(t, "season", ep.SeasonNumber, 1)
		checkIntEqual(t, "number", ep.EpisodeNumber, i+1)
		if ep.Parent != parent {
			t.Error("placeholder parent mismatch")
		}
	}
}

func TestSelectSeasons(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		want    []int
	}{
		{"mixed order with specials", []int{3, 0, 1, 2, 5}, []int{1, 2, 3}},
		{"later season listed first", []int{5, 1, 2, 3}, []int{1, 2, 3}},
		{"descending", []int{8, 7, 6, 5}, []int{5, 6, 7}},
		{"duplicates", []int{2, 2, 1, 1, 4}, []int{1, 2, 4}},
		{"fewer than the cap", []int{0, 2}, []int{2}},
		{"specials only", []int{0}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries := make([]models.TMDBSeasonSummary, 0, len(tt.numbers))
			for _, n := range tt.numbers {
				summaries = append(summaries, models.TMDBSeasonSummary{SeasonNumber: n})
			}
			if got := selectSeasons(summaries); !equalInts(got, tt.want) {
				t.Errorf("selectSeasons(%v) = %v, want %v", tt.numbers, got, tt.want)
			}
		})
	}
}
