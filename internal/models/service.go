// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package models

import (
	"fmt"
	"strings"
)

// StreamingService is the distribution service a title resolves to.
type StreamingService string

const (
	ServiceNetflix    StreamingService = "Netflix"
	ServiceDisney     StreamingService = "Disney+"
	ServiceHulu       StreamingService = "Hulu"
	ServiceParamount  StreamingService = "Paramount+"
	ServiceAppleTV    StreamingService = "Apple TV+"
	ServicePrime      StreamingService = "Prime Video"
	ServiceMax        StreamingService = "Max"
	ServicePeacock    StreamingService = "Peacock"
	ServiceInTheaters StreamingService = "In Theaters"
)

// ServiceColor is a named display color with an opacity in [0,1].
type ServiceColor struct {
	Name    string  `json:"name"`
	Opacity float64 `json:"opacity"`
}

type serviceInfo struct {
	slug  string
	color ServiceColor
	logo  string
}

var serviceCatalog = map[StreamingService]serviceInfo{
	ServiceNetflix:    {"netflix", ServiceColor{"red", 1}, "https://assets.nflxext.com/us/ffe/siteui/common/icons/nficon2016.ico"},
	ServiceDisney:     {"disney", ServiceColor{"blue", 1}, "https://static-assets.bamgrid.com/product/disneyplus/favicons/favicon.ico"},
	ServiceHulu:       {"hulu", ServiceColor{"green", 1}, "https://www.hulu.com/static/hitch/static/icons/favicon.ico"},
	ServiceParamount:  {"paramount", ServiceColor{"blue", 0.7}, "https://www.paramountplus.com/favicon.ico"},
	ServiceAppleTV:    {"appletv", ServiceColor{"gray", 1}, "https://tv.apple.com/favicon.ico"},
	ServicePrime:      {"prime", ServiceColor{"blue", 0.8}, "https://m.media-amazon.com/images/G/01/digital/video/DVUI/favicons/favicon-196x196.png"},
	ServiceMax:        {"max", ServiceColor{"purple", 1}, "https://www.max.com/favicon.ico"},
	ServicePeacock:    {"peacock", ServiceColor{"yellow", 1}, "https://www.peacocktv.com/static/favicon.ico"},
	ServiceInTheaters: {"theaters", ServiceColor{"orange", 1}, ""},
}

// AllServices returns every service in display order.
func AllServices() []StreamingService {
	return []StreamingService{
		ServiceNetflix, ServiceDisney, ServiceHulu, ServiceParamount,
		ServiceAppleTV, ServicePrime, ServiceMax, ServicePeacock, ServiceInTheaters,
	}
}

// Valid reports whether s is one of the known services.
func (s StreamingService) Valid() bool {
	_, ok := serviceCatalog[s]
	return ok
}

// Slug is the URL-safe identifier, e.g. "disney" for Disney+.
func (s StreamingService) Slug() string {
	return serviceCatalog[s].slug
}

// Color returns the display color.
func (s StreamingService) Color() ServiceColor {
	return serviceCatalog[s].color
}

// LogoURL returns the service icon. In Theaters has none.
func (s StreamingService) LogoURL() string {
	return serviceCatalog[s].logo
}

// ParseStreamingService accepts a display name or a slug, case-insensitively.
func ParseStreamingService(v string) (StreamingService, error) {
	v = strings.TrimSpace(v)
	for _, s := range AllServices() {
		if strings.EqualFold(v, string(s)) || strings.EqualFold(v, s.Slug()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown streaming service %q", v)
}

// ServiceDescriptor is the wire form returned by the services listing.
type ServiceDescriptor struct {
	Name    StreamingService `json:"name"`
	Slug    string           `json:"slug"`
	Color   ServiceColor     `json:"color"`
	LogoURL string           `json:"logo_url,omitempty"`
}

// Describe returns the descriptor for s.
func (s StreamingService) Describe() ServiceDescriptor {
	return ServiceDescriptor{Name: s, Slug: s.Slug(), Color: s.Color(), LogoURL: s.LogoURL()}
}
