// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores query response envelopes keyed by the full query
// signature. Stores never fail their callers: an unavailable or corrupt
// backend behaves as a permanent miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// Defaults for the result cache.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

// Store is a result cache. Implementations are safe for concurrent use.
type Store interface {
	// Get returns the envelope cached under key, or false on a miss.
	Get(ctx context.Context, key string) (types.Envelope, bool)

	// Set stores env under key, replacing any previous entry.
	Set(ctx context.Context, key string, env types.Envelope)
}

// Key builds the cache key for a query signature. Debug is not part of the
// key.
func Key(q, typ string, page, limit int) string {
	return fmt.Sprintf("q=%s|type=%s|page=%d|limit=%d", q, typ, page, limit)
}

// Nop is a Store that never holds anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) (types.Envelope, bool) { return types.Envelope{}, false }

// Set discards env.
func (Nop) Set(context.Context, string, types.Envelope) {}
