// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/unistream/config.yaml",
	"/etc/unistream/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths hold values that arrive as comma-separated strings
// from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// envMappings maps lower-cased environment variable names to koanf keys.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"tmdb_api_token":           "tmdb.api_token",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_image_base_url":      "tmdb.image_base_url",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",
	"tmdb_cache_ttl":           "tmdb.cache_ttl",
	"tmdb_circuit_breaker":     "tmdb.circuit_breaker",

	"catalog_page_limit":       "catalog.page_limit",
	"catalog_refresh_interval": "catalog.refresh_interval",
	"catalog_load_on_start":    "catalog.load_on_start",
	"catalog_random_seed":      "catalog.random_seed",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",

	"storage_path":      "storage.path",
	"storage_in_memory": "storage.in_memory",

	"jwt_secret":      "security.jwt_secret",
	"session_timeout": "security.session_timeout",
	"auth_latency":    "security.auth_latency",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/original",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 40,
			Burst:             20,
			CacheTTL:          10 * time.Minute,
			CircuitBreaker:    true,
		},
		Catalog: CatalogConfig{
			PageLimit:       20,
			RefreshInterval: 30 * time.Minute,
			LoadOnStart:     true,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Storage: StorageConfig{
			Path: "/data/unistream",
		},
		Security: SecurityConfig{
			SessionTimeout: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the config file found by
// findConfigFile and the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
