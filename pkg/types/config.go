// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by networked provider adapters.
type HTTPConfig struct {
	// Timeout bounds each provider call (default 8s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ecosyz/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32 `json:"max_failures" yaml:"max_failures" mapstructure:"max_failures"`

	// OpenTimeout is how long an open breaker rejects calls before probing again.
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout" mapstructure:"open_timeout"`
}

// SearchConfig holds settings for provider fan-out and pagination.
type SearchConfig struct {
	// Providers is the ordered provider registry. Order fixes the aggregator's
	// concatenation order and so which record donates a merged url.
	Providers []string `json:"providers" yaml:"providers" mapstructure:"providers"`

	// PerProvider is the number of results requested from each provider (default 20).
	PerProvider int `json:"per_provider" yaml:"per_provider" mapstructure:"per_provider"`

	// DefaultLimit is the page size used when a request gives none (default 30).
	DefaultLimit int `json:"default_limit" yaml:"default_limit" mapstructure:"default_limit"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// TTL is the maximum age of a cached envelope (default 5m).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// MaxEntries caps the in-process cache (default 100).
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`

	// RedisAddr selects the shared Redis store when non-empty.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`

	// RedisPassword is sent on connect when RedisAddr is set.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty" mapstructure:"redis_password"`
}

// ServerConfig holds settings for the HTTP query surface.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// CatalogConfig holds settings for the local SQLite catalog.
type CatalogConfig struct {
	// Path is the SQLite database file. Empty disables the catalog provider.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Credentials carries API keys loaded from the secrets directory.
type Credentials struct {
	GitHubToken      string
	HuggingFaceToken string
	SemanticKey      string
	OpenAlexEmail    string
	ZenodoToken      string
}

// EngineConfig groups all configuration for the engine.
type EngineConfig struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Breaker BreakerConfig `json:"breaker" yaml:"breaker" mapstructure:"breaker"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}
