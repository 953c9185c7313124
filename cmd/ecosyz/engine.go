// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/cache"
	"github.com/pdiddy/ecosyz/internal/catalog"
	"github.com/pdiddy/ecosyz/internal/httputil"
	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/internal/provider"
	"github.com/pdiddy/ecosyz/internal/search"
	"github.com/pdiddy/ecosyz/internal/secrets"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// engine is the fully wired query service and what it owns.
type engine struct {
	service  *search.Service
	registry *prometheus.Registry
	closers  []func() error
}

// Close releases the engine's stores.
func (e *engine) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			logger.Warn("closing engine resource", zap.Error(err))
		}
	}
}

// buildEngine wires providers, cache and metrics from cfg. The cache is
// created here once per process and shared by every request.
func buildEngine(cfg types.EngineConfig) (*engine, error) {
	e := &engine{registry: prometheus.NewRegistry()}
	e.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(e.registry)

	env := provider.Env{
		Client:      httputil.NewClient(cfg.HTTP),
		Credentials: secrets.Credentials(loadedSecrets),
	}
	guardCfg := provider.GuardConfig{
		Timeout:     cfg.HTTP.Timeout,
		Limit:       cfg.Search.PerProvider,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}

	reg := &provider.Registry{}
	for _, name := range cfg.Search.Providers {
		var backend provider.Backend
		if name == catalog.Name {
			if cfg.Catalog.Path == "" {
				logger.Debug("catalog provider disabled: no catalog.path")
				continue
			}
			store, err := catalog.Open(cfg.Catalog.Path, logger)
			if err != nil {
				e.Close()
				return nil, err
			}
			e.closers = append(e.closers, store.Close)
			backend = store
		} else {
			b, err := provider.Builtin(name, env)
			if err != nil {
				e.Close()
				return nil, fmt.Errorf("configuring providers: %w", err)
			}
			backend = b
		}
		if err := reg.Register(provider.NewGuard(backend, guardCfg, logger, rec)); err != nil {
			e.Close()
			return nil, err
		}
	}
	if len(reg.Names()) == 0 {
		e.Close()
		return nil, fmt.Errorf("no providers configured")
	}

	var store cache.Store
	if cfg.Cache.RedisAddr != "" {
		r := cache.NewRedis(cfg.Cache, logger, rec)
		e.closers = append(e.closers, r.Close)
		store = r
	} else {
		m, err := cache.NewMemory(cfg.Cache, logger, rec)
		if err != nil {
			e.Close()
			return nil, err
		}
		store = m
	}

	e.service = search.NewService(search.NewAggregator(reg, logger), store, search.Options{
		DefaultLimit: cfg.Search.DefaultLimit,
		Log:          logger,
		Metrics:      rec,
	})
	logger.Debug("engine ready", zap.Strings("providers", reg.Names()))
	return e, nil
}
