// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"testing"

	"github.com/tomtom215/unistream/internal/models"
)

func TestFirstMatch(t *testing.T) {
	rules := []Rule{
		{Name: "never", Match: func(Candidate) bool { return false }, Service: models.ServiceHulu},
		{Name: "movies", Match: func(c Candidate) bool { return c.IsMovie }, Service: models.ServicePrime},
		{Name: "all", Match: func(Candidate) bool { return true }, Service: models.ServicePeacock},
	}

	if s, ok := FirstMatch(rules, Candidate{IsMovie: true}); !ok || s != models.ServicePrime {
		t.Errorf("movie: got (%q, %v)", s, ok)
	}
	if s, ok := FirstMatch(rules, Candidate{}); !ok || s != models.ServicePeacock {
		t.Errorf("show: got (%q, %v)", s, ok)
	}
	if _, ok := FirstMatch(nil, Candidate{}); ok {
		t.Error("empty rule set should not match")
	}
}

func TestProviderRules(t *testing.T) {
	tests := map[int]models.StreamingService{
		8:   models.ServiceNetflix,
		337: models.ServiceDisney,
		15:  models.ServiceHulu,
		531: models.ServiceParamount,
		350: models.ServiceAppleTV,
		9:   models.ServicePrime,
		384: models.ServiceMax,
		386: models.ServicePeacock,
	}
	rules := ProviderRules()
	for id, want := range tests {
		got, ok := FirstMatch(rules, Candidate{ProviderID: id})
		if !ok || got != want {
			t.Errorf("provider %d: got (%q, %v), want %q", id, got, ok, want)
		}
	}
	if _, ok := FirstMatch(rules, Candidate{ProviderID: 2}); ok {
		t.Error("unmapped provider 2 should not match")
	}
}

func TestPatternRules(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		overview string
		want     models.StreamingService
		wantOK   bool
	}{
		{"title keyword", "Marvel Heroes", "", models.ServiceDisney, true},
		{"overview keyword", "Untitled", "from the makers of Ted Lasso", models.ServiceAppleTV, true},
		{"case insensitive", "stranger things 5", "", models.ServiceNetflix, true},
		{"service order wins", "Star Trek", "a Disney co-production", models.ServiceDisney, true},
		{"apostrophe", "The Handmaid's Tale", "", models.ServiceHulu, true},
		{"peacock", "", "Produced by NBC", models.ServicePeacock, true},
		{"prime", "The Boys", "", models.ServicePrime, true},
		{"max", "house of the dragon", "", models.ServiceMax, true},
		{"paramount", "SpongeBob Movie", "", models.ServiceParamount, true},
		{"no keyword", "Quiet Field", "A farmer's story.", "", false},
	}

	rules := PatternRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstMatch(rules, Candidate{Title: tt.title, Overview: tt.overview})
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	if s, _ := FirstMatch(rules, Candidate{IsMovie: true}); s != models.ServiceInTheaters {
		t.Errorf("movie default = %q", s)
	}
	if s, _ := FirstMatch(rules, Candidate{IsMovie: false}); s != models.ServiceNetflix {
		t.Errorf("show default = %q", s)
	}
}
