// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/ecosyz/internal/provider"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// Aggregate is the joined output of one fan-out.
type Aggregate struct {
	// Resources is the concatenation of every provider's results in
	// registry order, then within-provider order.
	Resources []types.Resource

	// Counts maps each provider name to the number of records it returned.
	// A failed provider maps to 0.
	Counts map[string]int
}

// Aggregator queries every registered provider concurrently.
type Aggregator struct {
	providers []provider.Provider
	log       *zap.Logger
}

// NewAggregator returns an aggregator over the registry's providers.
func NewAggregator(reg *provider.Registry, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{providers: reg.Providers(), log: log.With(zap.String("component", "aggregator"))}
}

// Names returns the provider names in query order.
func (a *Aggregator) Names() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// Run invokes every provider with query and joins on all of them. No
// provider can fail or abort its siblings; there is no global deadline.
func (a *Aggregator) Run(ctx context.Context, query string) Aggregate {
	start := time.Now()
	perProvider := make([][]types.Resource, len(a.providers))

	var g errgroup.Group
	for i, p := range a.providers {
		i, p := i, p
		g.Go(func() error {
			perProvider[i] = p.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	out := Aggregate{Counts: make(map[string]int, len(a.providers))}
	for i, p := range a.providers {
		out.Counts[p.Name()] = len(perProvider[i])
		out.Resources = append(out.Resources, perProvider[i]...)
	}

	a.log.Debug("aggregation complete",
		zap.Int("providers", len(a.providers)),
		zap.Int("resources", len(out.Resources)),
		zap.Duration("elapsed", time.Since(start)))
	return out
}
