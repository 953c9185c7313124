// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score ranks resources against a query using match, recency, and
// licensing signals.
package score

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// Signal weights. They sum to 1 so a score stays in [0, 1].
const (
	WeightMatch   = 0.5
	WeightRecent  = 0.3
	WeightLicense = 0.2

	// RecentYears is the age window, in years, that earns the recency weight.
	RecentYears = 5
)

// Score returns the weighted ranking score of r for query in the given year.
func Score(r types.Resource, query string, currentYear int) float64 {
	var s float64

	q := strings.ToLower(query)
	text := strings.ToLower(r.Title + " " + r.Description)
	if strings.Contains(text, q) {
		s += WeightMatch
	}
	if r.Year != 0 && currentYear-r.Year < RecentYears {
		s += WeightRecent
	}
	if r.HasLicense() {
		s += WeightLicense
	}
	return s
}

// Scorer writes scores into resources. Now is overridable for tests.
type Scorer struct {
	Now func() time.Time
}

// Apply sets Score on every resource in rs.
func (sc Scorer) Apply(rs []types.Resource, query string) {
	now := time.Now
	if sc.Now != nil {
		now = sc.Now
	}
	year := now().Year()
	for i := range rs {
		rs[i].Score = Score(rs[i], query, year)
	}
}

// Rank sorts rs by descending score. Equal scores keep their relative order.
func Rank(rs []types.Resource) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Score > rs[j].Score
	})
}
