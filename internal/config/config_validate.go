// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/unistream/internal/logging"
)

// minJWTSecretLength matches what HS256 needs to be worth signing with.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and in range.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if strings.TrimSpace(c.TMDB.APIToken) == "" {
		return fmt.Errorf("TMDB_API_TOKEN is required")
	}
	for name, raw := range map[string]string{
		"TMDB_BASE_URL":       c.TMDB.BaseURL,
		"TMDB_IMAGE_BASE_URL": c.TMDB.ImageBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND cannot be negative")
	}
	if c.TMDB.RequestsPerSecond > 0 && c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_BURST must be at least 1 when pacing is enabled")
	}
	if c.TMDB.CacheTTL < 0 {
		return fmt.Errorf("TMDB_CACHE_TTL cannot be negative")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.PageLimit < 1 {
		return fmt.Errorf("CATALOG_PAGE_LIMIT must be at least 1")
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL cannot be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS cannot be negative")
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.InMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("STORAGE_PATH is required unless STORAGE_IN_MEMORY is set")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if c.Security.AuthLatency < 0 {
		return fmt.Errorf("AUTH_LATENCY cannot be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
