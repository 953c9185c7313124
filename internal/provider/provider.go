// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts external catalogs (papers, datasets, code, models,
// hardware, videos) to the common Resource schema.
//
// A Backend talks to one catalog and may fail. A Guard wraps a Backend into
// a Provider, the contract the aggregator relies on: Search never fails and
// never blocks past its own timeout; any error yields an empty result.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 8 * time.Second

// DefaultLimit is the number of results requested from each provider.
const DefaultLimit = 20

// Backend searches a single external catalog. Implementations set Source on
// every record and keep unmapped provider fields in Meta.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Resource, error)
}

// Provider is a failure-isolated catalog adapter.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) []types.Resource
}

// GuardConfig tunes a Guard. Zero values use the package defaults.
type GuardConfig struct {
	Timeout     time.Duration
	Limit       int
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Guard isolates a Backend: it bounds each call with a timeout, trips a
// circuit breaker after repeated failures, recovers panics, and turns every
// failure into an empty result.
type Guard struct {
	backend Backend
	timeout time.Duration
	limit   int
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewGuard wraps b.
func NewGuard(b Backend, cfg GuardConfig, log *zap.Logger, rec *metrics.Recorder) *Guard {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "provider"), zap.String("provider", b.Name()))

	settings := gobreaker.Settings{
		Name:        b.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &Guard{
		backend: b,
		timeout: cfg.Timeout,
		limit:   cfg.Limit,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
		metrics: rec,
	}
}

// Name returns the wrapped backend's name.
func (g *Guard) Name() string { return g.backend.Name() }

// Search runs the backend and returns its results, or an empty slice on any
// failure. The returned slice is never nil.
func (g *Guard) Search(ctx context.Context, query string) (out []types.Resource) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			g.log.Error("provider panicked", zap.Any("panic", p))
			g.metrics.ProviderFailed(g.Name(), "panic")
			out = []types.Resource{}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	v, err := g.breaker.Execute(func() (interface{}, error) {
		return g.backend.Search(ctx, query, g.limit)
	})
	if err != nil {
		cause := failureCause(ctx, err)
		g.log.Warn("provider search failed", zap.String("cause", cause), zap.Error(err))
		g.metrics.ProviderFailed(g.Name(), cause)
		return []types.Resource{}
	}

	rs, _ := v.([]types.Resource)
	out = make([]types.Resource, 0, len(rs))
	for _, r := range rs {
		out = append(out, g.stamp(r))
	}
	g.metrics.ProviderDone(g.Name(), len(out), time.Since(start))
	return out
}

// stamp fills the source, license and id fields a backend may have left empty.
func (g *Guard) stamp(r types.Resource) types.Resource {
	if r.Source == "" {
		r.Source = g.Name()
	}
	r.License = types.NormalizeLicense(r.License)
	if r.ID == "" {
		r.ID = r.URL
	}
	return r
}

func failureCause(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// Registry is the ordered list of providers queried for every request.
// Registration order is the aggregator's concatenation order.
type Registry struct {
	providers []Provider
	names     map[string]bool
}

// NewRegistry returns a registry holding ps in order.
func NewRegistry(ps ...Provider) (*Registry, error) {
	r := &Registry{names: make(map[string]bool)}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends p. Names must be unique.
func (r *Registry) Register(p Provider) error {
	if r.names == nil {
		r.names = make(map[string]bool)
	}
	if r.names[p.Name()] {
		return fmt.Errorf("provider %q registered twice", p.Name())
	}
	r.names[p.Name()] = true
	r.providers = append(r.providers, p)
	return nil
}

// Providers returns the registered providers in order.
func (r *Registry) Providers() []Provider {
	return append([]Provider(nil), r.providers...)
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}
