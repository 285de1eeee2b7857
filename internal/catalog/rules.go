// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package catalog

import (
	"strconv"
	"strings"

	"github.com/tomtom215/unistream/internal/models"
)

// Candidate is what a rule sees when deciding a title's service.
// ProviderID is set only while the provider stage scans a listing.
type Candidate struct {
	Title      string
	Overview   string
	IsMovie    bool
	ProviderID int
}

// Rule assigns Service to every candidate Match accepts.
type Rule struct {
	Name    string
	Match   func(Candidate) bool
	Service models.StreamingService
}

// FirstMatch evaluates rules in order and returns the service of the
// first rule that matches.
func FirstMatch(rules []Rule, c Candidate) (models.StreamingService, bool) {
	for _, r := range rules {
		if r.Match(c) {
			return r.Service, true
		}
	}
	return "", false
}

// TMDB watch-provider IDs.
var providerServices = []struct {
	id      int
	service models.StreamingService
}{
	{8, models.ServiceNetflix},
	{337, models.ServiceDisney},
	{15, models.ServiceHulu},
	{531, models.ServiceParamount},
	{350, models.ServiceAppleTV},
	{9, models.ServicePrime},
	{384, models.ServiceMax},
	{386, models.ServicePeacock},
}

// ProviderRules match a candidate by its ProviderID.
func ProviderRules() []Rule {
	rules := make([]Rule, 0, len(providerServices))
	for _, p := range providerServices {
		id := p.id
		rules = append(rules, Rule{
			Name:    "provider:" + strconv.Itoa(id),
			Match:   func(c Candidate) bool { return c.ProviderID == id },
			Service: p.service,
		})
	}
	return rules
}

// Evaluated in this order; the first service with a hit wins.
var servicePatterns = []struct {
	service  models.StreamingService
	keywords []string
}{
	{models.ServiceDisney, []string{"Marvel", "Star Wars", "Disney", "Pixar", "National Geographic"}},
	{models.ServiceNetflix, []string{"Netflix Original", "Stranger Things", "Bridgerton", "The Witcher", "The Crown"}},
	{models.ServiceMax, []string{"HBO", "House of the Dragon", "The Last of Us", "Succession", "Warner"}},
	{models.ServiceAppleTV, []string{"Apple Original", "Ted Lasso", "The Morning Show", "Foundation"}},
	{models.ServiceParamount, []string{"Paramount", "Star Trek", "Yellowstone", "SpongeBob"}},
	{models.ServiceHulu, []string{"FX", "The Handmaid's Tale", "Only Murders in the Building"}},
	{models.ServicePrime, []string{"Amazon Original", "The Boys", "Lord of the Rings", "The Wheel of Time"}},
	{models.ServicePeacock, []string{"NBC", "Universal", "The Office", "Brooklyn Nine-Nine"}},
}

// PatternRules match well-known franchise and exclusive names against
// the title and overview, ignoring case.
func PatternRules() []Rule {
	rules := make([]Rule, 0, len(servicePatterns))
	for _, sp := range servicePatterns {
		keywords := make([]string, len(sp.keywords))
		for i, k := range sp.keywords {
			keywords[i] = strings.ToLower(k)
		}
		rules = append(rules, Rule{
			Name:    "pattern:" + sp.service.Slug(),
			Match:   func(c Candidate) bool { return containsAny(c.Title, c.Overview, keywords) },
			Service: sp.service,
		})
	}
	return rules
}

// DefaultRules always produce a service: movies are assumed to be in
// theaters, shows default to Netflix.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "default:movie", Match: func(c Candidate) bool { return c.IsMovie }, Service: models.ServiceInTheaters},
		{Name: "default:show", Match: func(Candidate) bool { return true }, Service: models.ServiceNetflix},
	}
}

func containsAny(title, overview string, lowered []string) bool {
	t, o := strings.ToLower(title), strings.ToLower(overview)
	for _, k := range lowered {
		if strings.Contains(t, k) || strings.Contains(o, k) {
			return true
		}
	}
	return false
}
