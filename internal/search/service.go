// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search composes aggregation, deduplication, scoring, and
// pagination into the cached query service.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/cache"
	"github.com/pdiddy/ecosyz/internal/dedupe"
	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/internal/score"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// DefaultLimit is the page size used when a request does not set one.
const DefaultLimit = 30

// Validation errors. Callers map these to a 400 response.
var (
	ErrEmptyQuery  = errors.New("q is required")
	ErrInvalidType = errors.New("invalid type")
)

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidType)
}

// Request is a query signature plus the debug flag.
type Request struct {
	Q     string
	Type  string
	Page  int
	Limit int
	Debug bool
}

// normalize validates r and applies defaults.
func (r Request) normalize(defaultLimit int) (Request, error) {
	r.Q = strings.TrimSpace(r.Q)
	if r.Q == "" {
		return r, ErrEmptyQuery
	}
	r.Type = strings.TrimSpace(r.Type)
	if r.Type == "" {
		r.Type = types.TypeAll
	}
	if r.Type != types.TypeAll && !types.ResourceType(r.Type).Valid() {
		return r, fmt.Errorf("%w %q", ErrInvalidType, r.Type)
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	return r, nil
}

// Options configures a Service. Zero values use defaults.
type Options struct {
	DefaultLimit int
	Now          func() time.Time
	Log          *zap.Logger
	Metrics      *metrics.Recorder
}

// Service answers queries from the cache or by running the full pipeline.
// It is safe for concurrent use; the cache is its only shared state.
type Service struct {
	agg          *Aggregator
	cache        cache.Store
	scorer       score.Scorer
	defaultLimit int
	log          *zap.Logger
	metrics      *metrics.Recorder
}

// NewService wires a Service. A nil store disables caching.
func NewService(agg *Aggregator, store cache.Store, opts Options) *Service {
	if store == nil {
		store = cache.Nop{}
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Service{
		agg:          agg,
		cache:        store,
		scorer:       score.Scorer{Now: opts.Now},
		defaultLimit: opts.DefaultLimit,
		log:          opts.Log.With(zap.String("component", "search")),
		metrics:      opts.Metrics,
	}
}

// Query returns the envelope for req. The only error is a validation error.
//
// Provider calls are detached from ctx cancellation: a caller that goes away
// does not abort in-flight provider calls, each of which is bounded by its
// own timeout.
func (s *Service) Query(ctx context.Context, req Request) (types.Envelope, error) {
	req, err := req.normalize(s.defaultLimit)
	if err != nil {
		return types.Envelope{}, err
	}
	s.metrics.Query()

	key := cache.Key(req.Q, req.Type, req.Page, req.Limit)
	if env, ok := s.cache.Get(ctx, key); ok {
		s.log.Debug("cache hit", zap.String("key", key))
		return env, nil
	}

	env := s.run(context.WithoutCancel(ctx), req)
	s.cache.Set(ctx, key, env)
	return env, nil
}

func (s *Service) run(ctx context.Context, req Request) types.Envelope {
	agg := s.agg.Run(ctx, req.Q)

	candidates := agg.Resources
	if req.Type != types.TypeAll {
		candidates = filterType(candidates, types.ResourceType(req.Type))
	}

	s.scorer.Apply(candidates, req.Q)
	res := dedupe.Deduplicate(candidates)
	score.Rank(res.Resources)

	n := len(res.Resources)
	start, end, hasMore := pageBounds(req.Page, req.Limit, n)

	env := types.Envelope{
		Results: append([]types.Resource{}, res.Resources[start:end]...),
		Total:   n,
		Page:    req.Page,
		Limit:   req.Limit,
		HasMore: hasMore,
		Coverage: types.Coverage{
			RequestedProviders: s.agg.Names(),
			ReceivedCounts:     agg.Counts,
			UniqueBefore:       len(candidates),
			UniqueAfter:        n,
			Merged:             res.Merges,
		},
	}
	if req.Debug {
		env.Decisions = res.Decisions
	}

	s.log.Info("query complete",
		zap.String("q", req.Q),
		zap.String("type", req.Type),
		zap.Int("page", req.Page),
		zap.Int("received", len(agg.Resources)),
		zap.Int("unique", n),
		zap.Int("merged", res.Merges))
	return env
}

// pageBounds returns the slice [start, end) of n items for a 1-based page of
// size limit, and whether later pages hold items. No product of page and
// limit is formed, so any page >= 1 and limit >= 1 is safe.
func pageBounds(page, limit, n int) (start, end int, hasMore bool) {
	pages := n / limit
	if n%limit != 0 {
		pages++
	}
	if page-1 >= pages {
		return n, n, false
	}
	start = (page - 1) * limit
	end = n
	if limit < n-start {
		end = start + limit
	}
	return start, end, page < pages
}

func filterType(rs []types.Resource, typ types.ResourceType) []types.Resource {
	out := make([]types.Resource, 0, len(rs))
	for _, r := range rs {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}
