// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/pkg/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestMemory(t *testing.T, cfg types.CacheConfig) (*Memory, *fakeClock, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New(prometheus.NewRegistry())
	m, err := NewMemory(cfg, zaptest.NewLogger(t), rec)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	m.now = clock.Now
	return m, clock, rec
}

func envelope(total int) types.Envelope {
	return types.Envelope{Total: total, Page: 1, Limit: 30}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "q=graphs|type=all|page=2|limit=20", Key("graphs", "all", 2, 20))
	assert.NotEqual(t, Key("a", "all", 1, 30), Key("a", "paper", 1, 30))
}

func TestMemoryHitAndMiss(t *testing.T) {
	m, _, rec := newTestMemory(t, types.CacheConfig{})
	ctx := context.Background()

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)

	m.Set(ctx, "k", envelope(3))
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 3, got.Total)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CacheEvents.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CacheEvents.WithLabelValues(metrics.CacheMiss)))
}

func TestMemoryIsolatesCallers(t *testing.T) {
	m, _, _ := newTestMemory(t, types.CacheConfig{})
	ctx := context.Background()

	env := types.Envelope{
		Results: []types.Resource{{ID: "r1", Title: "Graphs", Authors: []string{"Ada"}, Meta: types.Meta{"doi": "10.1/x"}}},
		Total:   1,
		Coverage: types.Coverage{
			RequestedProviders: []string{"a"},
			ReceivedCounts:     map[string]int{"a": 1},
		},
		Decisions: []types.Decision{{WinnerID: "r1", LoserID: "r2", Reason: "doi"}},
	}
	m.Set(ctx, "k", env)
	env.Results[0].Title = "changed after set"

	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	got.Results[0].Title = "changed"
	got.Results[0].Authors[0] = "changed"
	got.Results[0].Meta["doi"] = "changed"
	got.Coverage.ReceivedCounts["a"] = 99
	got.Decisions[0].Reason = "changed"

	again, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Graphs", again.Results[0].Title)
	assert.Equal(t, []string{"Ada"}, again.Results[0].Authors)
	assert.Equal(t, "10.1/x", again.Results[0].Meta["doi"])
	assert.Equal(t, 1, again.Coverage.ReceivedCounts["a"])
	assert.Equal(t, "doi", again.Decisions[0].Reason)
}

func TestMemoryTTL(t *testing.T) {
	m, clock, rec := newTestMemory(t, types.CacheConfig{TTL: 5 * time.Minute})
	ctx := context.Background()

	m.Set(ctx, "k", envelope(1))

	clock.Advance(5 * time.Minute)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok, "an entry exactly TTL old is still fresh")

	clock.Advance(time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, m.Contains("k"), "expired entry is evicted on access")
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CacheEvents.WithLabelValues(metrics.CacheExpired)))
}

func TestMemoryOverwrite(t *testing.T) {
	m, clock, _ := newTestMemory(t, types.CacheConfig{TTL: time.Minute})
	ctx := context.Background()

	m.Set(ctx, "k", envelope(1))
	clock.Advance(50 * time.Second)
	m.Set(ctx, "k", envelope(2))
	clock.Advance(50 * time.Second)

	got, ok := m.Get(ctx, "k")
	require.True(t, ok, "overwrite refreshes the timestamp")
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	m, _, rec := newTestMemory(t, types.CacheConfig{MaxEntries: 100})
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		m.Set(ctx, fmt.Sprintf("k%d", i), envelope(i))
	}
	// Touch k0 so k1 becomes the least recently used key.
	_, ok := m.Get(ctx, "k0")
	require.True(t, ok)

	m.Set(ctx, "k100", envelope(100))

	assert.Equal(t, 100, m.Len())
	assert.False(t, m.Contains("k1"))
	assert.True(t, m.Contains("k0"))
	assert.True(t, m.Contains("k2"))
	assert.True(t, m.Contains("k100"))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CacheEvents.WithLabelValues(metrics.CacheEvicted)))
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m, _, _ := newTestMemory(t, types.CacheConfig{MaxEntries: 10})
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*i)%25)
				m.Set(ctx, key, envelope(i))
				m.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 10)
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	rec := metrics.New(prometheus.NewRegistry())
	// Port 1 is reserved and refuses connections.
	r := NewRedis(types.CacheConfig{RedisAddr: "127.0.0.1:1"}, zaptest.NewLogger(t), rec)
	defer r.Close()

	ctx := context.Background()
	assert.NotPanics(t, func() { r.Set(ctx, "k", envelope(1)) })

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.CacheEvents.WithLabelValues(metrics.CacheError)))
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	s.Set(context.Background(), "k", envelope(1))
	_, ok := s.Get(context.Background(), "k")
	assert.False(t, ok)
}
