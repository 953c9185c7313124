// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the prometheus collectors for provider fan-out and
// the result cache. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecosyz"

// Recorder groups the engine's collectors.
type Recorder struct {
	ProviderResults  *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	CacheEvents      *prometheus.CounterVec
	Queries          prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		ProviderResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_results_total",
			Help:      "Resources returned by each provider.",
		}, []string{"provider"}),
		ProviderFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Provider calls that failed, by provider and cause.",
		}, []string{"provider", "cause"}),
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Provider call latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Result cache hits, misses, expiries, evictions, and errors.",
		}, []string{"event"}),
		Queries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries answered by the query service.",
		}),
	}
}

// ProviderDone records one provider call.
func (r *Recorder) ProviderDone(provider string, n int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.ProviderResults.WithLabelValues(provider).Add(float64(n))
	r.ProviderLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ProviderFailed records a failed provider call.
func (r *Recorder) ProviderFailed(provider, cause string) {
	if r == nil {
		return
	}
	r.ProviderFailures.WithLabelValues(provider, cause).Inc()
}

// Cache event labels.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheExpired = "expired"
	CacheEvicted = "evicted"
	CacheError   = "error"
)

// CacheEvent records a cache event.
func (r *Recorder) CacheEvent(event string) {
	if r == nil {
		return
	}
	r.CacheEvents.WithLabelValues(event).Inc()
}

// Query records one answered query.
func (r *Recorder) Query() {
	if r == nil {
		return
	}
	r.Queries.Inc()
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
