// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/pkg/types"
)

type entry struct {
	stored  time.Time
	payload types.Envelope
}

// Memory is an in-process Store bounded by age and entry count. Expiry is
// checked lazily on Get; capacity overflow evicts the least recently used
// key. There is no background sweeping.
//
// Memory is created once per process and shared by all requests.
type Memory struct {
	mu  sync.Mutex
	lru *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time

	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewMemory returns a Memory store sized by cfg. Zero values fall back to
// DefaultTTL and DefaultMaxEntries.
func NewMemory(cfg types.CacheConfig, log *zap.Logger, rec *metrics.Recorder) (*Memory, error) {
	size := cfg.MaxEntries
	if size <= 0 {
		size = DefaultMaxEntries
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	return &Memory{
		lru:     c,
		ttl:     ttl,
		now:     time.Now,
		log:     log.With(zap.String("component", "cache.memory")),
		metrics: rec,
	}, nil
}

// Get returns a copy of the envelope under key. A hit moves key to the most
// recently used position; an entry older than the TTL is evicted and reported
// as a miss.
func (m *Memory) Get(_ context.Context, key string) (types.Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(key)
	if !ok {
		m.metrics.CacheEvent(metrics.CacheMiss)
		return types.Envelope{}, false
	}
	if m.now().Sub(e.stored) > m.ttl {
		m.lru.Remove(key)
		m.metrics.CacheEvent(metrics.CacheExpired)
		m.metrics.CacheEvent(metrics.CacheMiss)
		return types.Envelope{}, false
	}
	m.metrics.CacheEvent(metrics.CacheHit)
	return e.payload.Clone(), true
}

// Set inserts or overwrites key, evicting the least recently used entry when
// the store is over capacity.
func (m *Memory) Set(_ context.Context, key string, env types.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if evicted := m.lru.Add(key, entry{stored: m.now(), payload: env.Clone()}); evicted {
		m.metrics.CacheEvent(metrics.CacheEvicted)
		m.log.Debug("evicted least recently used entry", zap.Int("size", m.lru.Len()))
	}
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Contains reports whether key is present without touching its recency.
func (m *Memory) Contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Contains(key)
}
