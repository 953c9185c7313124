// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/internal/provider"
	"github.com/pdiddy/ecosyz/internal/search"
	"github.com/pdiddy/ecosyz/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubQuerier struct {
	last search.Request
	env  types.Envelope
	err  error
}

func (s *stubQuerier) Query(_ context.Context, req search.Request) (types.Envelope, error) {
	s.last = req
	return s.env, s.err
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearchPassesParameters(t *testing.T) {
	q := &stubQuerier{env: types.Envelope{Results: []types.Resource{}, Total: 0, Page: 2, Limit: 10}}
	srv := New(q, zaptest.NewLogger(t), nil)

	w := do(t, srv.Router(), "/api/search?q=graph+nets&type=code&page=2&limit=10&debug=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, search.Request{Q: "graph nets", Type: "code", Page: 2, Limit: 10, Debug: true}, q.last)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"results", "total", "page", "limit", "hasMore", "coverage"} {
		assert.Contains(t, body, key)
	}
	assert.NotContains(t, body, "decisions")
}

func TestSearchDebugFlag(t *testing.T) {
	q := &stubQuerier{}
	h := New(q, nil, nil).Router()

	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"", false},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			do(t, h, "/api/search?q=x&debug="+tt.value)
			assert.Equal(t, tt.want, q.last.Debug)
		})
	}
}

func TestSearchBadInteger(t *testing.T) {
	h := New(&stubQuerier{}, nil, nil).Router()
	for _, target := range []string{"/api/search?q=x&page=two", "/api/search?q=x&limit=1.5"} {
		w := do(t, h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestSearchValidationErrorIs400(t *testing.T) {
	q := &stubQuerier{err: search.ErrEmptyQuery}
	w := do(t, New(q, nil, nil).Router(), "/api/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"q is required"}`, w.Body.String())
}

func TestSearchInternalError(t *testing.T) {
	q := &stubQuerier{err: errors.New("boom")}
	w := do(t, New(q, zaptest.NewLogger(t), nil).Router(), "/api/search?q=x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchEndToEnd(t *testing.T) {
	backend := provider.NewStatic("hardware", types.TypeHardware, []types.Resource{
		{ID: "a", Title: "Open Microscope", URL: "https://h.example.org/a", License: "CERN-OHL-S-2.0"},
		{ID: "b", Title: "Open Microscope", URL: "https://h.example.org/a/"},
	})
	reg, err := provider.NewRegistry(provider.NewGuard(backend, provider.GuardConfig{}, nil, nil))
	require.NoError(t, err)
	svc := search.NewService(search.NewAggregator(reg, nil), nil, search.Options{})

	w := do(t, New(svc, nil, nil).Router(), "/api/search?q=microscope&debug=true")
	require.Equal(t, http.StatusOK, w.Code)

	var env types.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Total)
	assert.Equal(t, 1, env.Coverage.Merged)
	assert.Equal(t, map[string]int{"hardware": 2}, env.Coverage.ReceivedCounts)
	require.Len(t, env.Decisions, 1)
	assert.Equal(t, "url", env.Decisions[0].Reason)

	w = do(t, New(svc, nil, nil).Router(), "/api/search?q=")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestID(t *testing.T) {
	h := New(&stubQuerier{}, nil, nil).Router()

	w := do(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	rec.Query()

	w := do(t, New(&stubQuerier{}, nil, reg).Router(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "queries_total"))

	w = do(t, New(&stubQuerier{}, nil, nil).Router(), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
