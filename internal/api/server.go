// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the query service as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/internal/search"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 10 * time.Second

// Querier answers search requests.
type Querier interface {
	Query(ctx context.Context, req search.Request) (types.Envelope, error)
}

// Server is the HTTP front end of the query service.
type Server struct {
	svc      Querier
	log      *zap.Logger
	gatherer prometheus.Gatherer
}

// New returns a Server. A nil gatherer disables /metrics.
func New(svc Querier, log *zap.Logger, g prometheus.Gatherer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log.With(zap.String("component", "api")), gatherer: g}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/api/search", s.Search)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// searchParams is the query string of GET /api/search.
type searchParams struct {
	Q     string `form:"q"`
	Type  string `form:"type"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Debug string `form:"debug"`
}

// Search handles GET /api/search.
func (s *Server) Search(c *gin.Context) {
	var p searchParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be integers"})
		return
	}

	env, err := s.svc.Query(c.Request.Context(), search.Request{
		Q:     p.Q,
		Type:  p.Type,
		Page:  p.Page,
		Limit: p.Limit,
		Debug: parseFlag(p.Debug),
	})
	if err != nil {
		if search.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, env)
}

// parseFlag accepts 1/true/yes/on, case-insensitively.
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// requestID propagates or assigns the X-Request-ID header.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
