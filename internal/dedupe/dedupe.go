// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe clusters resources that describe the same underlying item.
// It is conservative: near-duplicates may be left unmerged, but distinct
// items must never be collapsed.
//
// Deduplication runs in two phases. Phase 1 merges records sharing an exact
// identity key (DOI, SWHID, normalized URL, or a source-scoped title). Phase 2
// merges surviving clusters whose type, year, title tokens, and authors agree
// closely enough (reason "tya").
package dedupe

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/ecosyz/internal/normalize"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// TitleThreshold is the minimum title similarity for a heuristic merge.
const TitleThreshold = 0.92

// genericTitles never trigger a heuristic merge.
var genericTitles = map[string]bool{
	"dataset":      true,
	"introduction": true,
	"readme":       true,
}

// Result is the outcome of a deduplication run.
type Result struct {
	// Resources holds one record per surviving cluster, in cluster order.
	Resources []types.Resource

	// Clusters is the number of clusters formed by exact-key matching.
	Clusters int

	// Merges is the number of merges performed across both phases.
	Merges int

	// Decisions is the audit trail, one entry per merge in the order made.
	Decisions []types.Decision
}

type cluster struct {
	rep      types.Resource
	consumed bool
}

// Deduplicate clusters in and returns the merged survivors. Input order
// matters: it decides which record seeds each cluster and so donates the url.
func Deduplicate(in []types.Resource) Result {
	clusters, decisions := mergeExact(in)
	decisions = mergeHeuristic(clusters, decisions)

	out := make([]types.Resource, 0, len(clusters))
	for _, c := range clusters {
		if !c.consumed {
			out = append(out, c.rep)
		}
	}
	return Result{
		Resources: out,
		Clusters:  len(clusters),
		Merges:    len(decisions),
		Decisions: decisions,
	}
}

// mergeExact is phase 1. Each cluster is indexed by the first key of the
// record that seeded it; a later record joins the first cluster matched by
// any of its keys, tried in priority order. Type is not compared here.
func mergeExact(in []types.Resource) ([]*cluster, []types.Decision) {
	index := make(map[string]*cluster)
	var clusters []*cluster
	var decisions []types.Decision

	for _, r := range in {
		keys := DeriveKeys(r)

		var target *cluster
		var reason string
		for _, k := range keys {
			if c, ok := index[k]; ok {
				target, reason = c, keyKind(k)
				break
			}
		}
		if target != nil {
			decisions = append(decisions, types.Decision{
				WinnerID: target.rep.ID,
				LoserID:  r.ID,
				Reason:   reason,
			})
			target.rep = Merge(target.rep, r)
			continue
		}

		seed := "uid:" + r.ID
		if len(keys) > 0 {
			seed = keys[0]
		}
		c := &cluster{rep: r}
		clusters = append(clusters, c)
		if _, taken := index[seed]; !taken {
			index[seed] = c
		}
	}
	return clusters, decisions
}

// mergeHeuristic is phase 2: a pairwise scan over cluster representatives.
// The scan is quadratic, which is fine for tens of results per query.
func mergeHeuristic(clusters []*cluster, decisions []types.Decision) []types.Decision {
	for i, a := range clusters {
		if a.consumed {
			continue
		}
		for _, b := range clusters[i+1:] {
			if b.consumed || !LikelySame(a.rep, b.rep) {
				continue
			}
			decisions = append(decisions, types.Decision{
				WinnerID: a.rep.ID,
				LoserID:  b.rep.ID,
				Reason:   ReasonHeuristic,
			})
			a.rep = Merge(a.rep, b.rep)
			b.consumed = true
		}
	}
	return decisions
}

// LikelySame reports whether a and b pass every heuristic merge test: same
// non-empty type, years within one of each other when both are known, title
// similarity of at least TitleThreshold, at least one shared author, and
// neither title generic.
func LikelySame(a, b types.Resource) bool {
	if a.Type == "" || b.Type == "" || a.Type != b.Type {
		return false
	}
	if a.Year != 0 && b.Year != 0 {
		d := a.Year - b.Year
		if d < -1 || d > 1 {
			return false
		}
	}
	if isGeneric(a.Title) || isGeneric(b.Title) {
		return false
	}
	if TitleSimilarity(a.Title, b.Title) < TitleThreshold {
		return false
	}
	return shareAuthor(a.Authors, b.Authors)
}

func isGeneric(title string) bool {
	return genericTitles[strings.ToLower(strings.TrimSpace(title))]
}

// TitleSimilarity is the token-overlap coefficient of two titles:
// |A ∩ B| / max(|A|, |B|, 1) over normalized tokens longer than two
// characters.
func TitleSimilarity(a, b string) float64 {
	ta, tb := titleTokens(a), titleTokens(b)
	common := 0
	for tok := range ta {
		if tb[tok] {
			common++
		}
	}
	denom := max(len(ta), len(tb), 1)
	return min(float64(common)/float64(denom), 1.0)
}

func titleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalize.Title(title)) {
		if utf8.RuneCountInString(tok) > 2 {
			tokens[tok] = true
		}
	}
	return tokens
}

func shareAuthor(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, name := range normalize.Authors(a) {
		if name != "" {
			set[name] = true
		}
	}
	for _, name := range normalize.Authors(b) {
		if set[name] {
			return true
		}
	}
	return false
}
