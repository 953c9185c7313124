// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ecosyz/pkg/types"
)

func paper(id, source, title, url string) types.Resource {
	return types.Resource{
		ID:      id,
		Type:    types.TypePaper,
		Title:   title,
		Source:  source,
		URL:     url,
		License: types.NoAssertion,
	}
}

// --- Key derivation ---

func TestDeriveKeys(t *testing.T) {
	tests := []struct {
		name string
		res  types.Resource
		want []string
	}{
		{
			name: "all kinds in priority order",
			res: types.Resource{
				Title:  "Deep Nets!",
				Source: "openalex",
				URL:    "https://Example.org/w/1/",
				Meta:   types.Meta{"doi": "https://doi.org/10.1/ABC", "swhid": "SWH:1:ORI:ff"},
			},
			want: []string{
				"doi:10.1/abc",
				"swh:swh:1:ori:ff",
				"url:https://example.org/w/1",
				"srctitle:openalex:deep nets",
			},
		},
		{
			name: "url and title only",
			res:  types.Resource{Title: "Repo", Source: "github", URL: "https://github.com/a/b"},
			want: []string{"url:https://github.com/a/b", "srctitle:github:repo"},
		},
		{
			name: "empty values omitted",
			res:  types.Resource{Title: "  ", Source: "x", Meta: types.Meta{"doi": "", "swhid": 42}},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKeys(tt.res))
		})
	}
}

// --- Phase 1 ---

func TestDeduplicateDOIScenario(t *testing.T) {
	a := paper("W1", "openalex", "Graph Methods", "https://openalex.org/W1")
	a.Meta = types.Meta{"doi": "10.1/abc"}
	a.Description = "short"
	b := paper("2101.00001", "arxiv", "Graph methods", "https://arxiv.org/abs/2101.00001")
	b.Meta = types.Meta{"doi": "https://doi.org/10.1/ABC"}
	b.Description = "a much longer description of the same work"

	res := Deduplicate([]types.Resource{a, b})
	require.Len(t, res.Resources, 1)

	got := res.Resources[0]
	assert.Equal(t, b.Description, got.Description)
	assert.Equal(t, a.URL, got.URL)
	assert.ElementsMatch(t, []types.SourceRef{
		{Source: "openalex", URL: a.URL},
		{Source: "arxiv", URL: b.URL},
	}, got.Meta.Sources())

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, types.Decision{WinnerID: "W1", LoserID: "2101.00001", Reason: KindDOI}, res.Decisions[0])
	assert.Equal(t, 1, res.Merges)
	assert.Equal(t, 1, res.Clusters)
}

func TestDeduplicateURLIdentity(t *testing.T) {
	a := types.Resource{ID: "gh-1", Type: types.TypeCode, Title: "fastlib", Source: "github", URL: "https://github.com/org/fastlib"}
	b := types.Resource{ID: "swh-1", Type: types.TypeCode, Title: "org/fastlib", Source: "softwareheritage",
		URL: "https://GitHub.com/org/fastlib/", Meta: types.Meta{"swhid": "swh:1:ori:abc"}}

	res := Deduplicate([]types.Resource{a, b})
	require.Len(t, res.Resources, 1)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, KindURL, res.Decisions[0].Reason)
	assert.Equal(t, a.URL, res.Resources[0].URL)
	assert.Equal(t, "swh:1:ori:abc", res.Resources[0].Meta.String("swhid"))
}

func TestDeduplicateSWHIdentity(t *testing.T) {
	a := types.Resource{ID: "a", Type: types.TypeCode, Title: "x", Source: "s1", URL: "https://a.example/x",
		Meta: types.Meta{"swhid": "swh:1:ori:ABC"}}
	b := types.Resource{ID: "b", Type: types.TypeCode, Title: "y", Source: "s2", URL: "https://b.example/y",
		Meta: types.Meta{"swhid": "swh:1:ori:abc"}}

	res := Deduplicate([]types.Resource{a, b})
	require.Len(t, res.Resources, 1)
	assert.Equal(t, KindSWH, res.Decisions[0].Reason)
}

func TestDeduplicateSourceScopedTitle(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Resource
		wantCount int
	}{
		{
			"same source merges",
			paper("1", "videos", "Ocean Temperatures", ""),
			paper("2", "videos", "ocean temperatures.", ""),
			1,
		},
		{
			"different sources stay apart",
			paper("1", "videos", "Ocean Temperatures", ""),
			paper("2", "hardware", "Ocean Temperatures", ""),
			2,
		},
		{
			"url seeds the cluster before the title",
			paper("1", "zenodo", "Ocean Temperatures", "https://zenodo.org/records/1"),
			paper("2", "zenodo", "ocean temperatures.", "https://zenodo.org/records/2"),
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Deduplicate([]types.Resource{tt.a, tt.b})
			assert.Len(t, res.Resources, tt.wantCount)
			if tt.wantCount == 1 {
				assert.Equal(t, KindSrcTitle, res.Decisions[0].Reason)
			}
		})
	}
}

func TestDeduplicateIgnoresTypeInPhaseOne(t *testing.T) {
	a := paper("1", "openalex", "Benchmark", "https://openalex.org/W1")
	a.Meta = types.Meta{"doi": "10.5/x"}
	b := types.Resource{ID: "2", Type: types.TypeDataset, Title: "Benchmark data", Source: "zenodo",
		URL: "https://zenodo.org/records/2", Meta: types.Meta{"doi": "10.5/X"}}

	res := Deduplicate([]types.Resource{a, b})
	assert.Len(t, res.Resources, 1)
	assert.Equal(t, KindDOI, res.Decisions[0].Reason)
}

func TestDeduplicateOnlySeedKeyIndexesCluster(t *testing.T) {
	// a seeds cluster "doi:10.9/z"; b shares only a's url, which is not the
	// cluster key, so the exact phase leaves them apart.
	a := paper("1", "openalex", "Alpha", "https://example.org/p")
	a.Meta = types.Meta{"doi": "10.9/z"}
	b := paper("2", "arxiv", "Beta", "https://example.org/p")

	res := Deduplicate([]types.Resource{a, b})
	assert.Len(t, res.Resources, 2)
	assert.Empty(t, res.Decisions)
}

func TestDeduplicateLaterKeysDoNotExtendCluster(t *testing.T) {
	// a seeds "url:u1" and absorbs b by url. b's doi is not added to the
	// index, so c, which shares only that doi, stays apart on the first
	// pass and merges on a second one.
	a := paper("a", "github", "Alpha", "https://example.org/u1")
	b := paper("b", "openalex", "Beta", "https://example.org/u1")
	b.Meta = types.Meta{"doi": "10.5/d"}
	c := paper("c", "arxiv", "Gamma", "https://example.org/u2")
	c.Meta = types.Meta{"doi": "10.5/d"}

	first := Deduplicate([]types.Resource{a, b, c})
	require.Len(t, first.Resources, 2)
	assert.Equal(t, []types.Decision{{WinnerID: "a", LoserID: "b", Reason: "url"}}, first.Decisions)

	second := Deduplicate(first.Resources)
	require.Len(t, second.Resources, 1)
	require.Len(t, second.Decisions, 1)
	assert.Equal(t, "doi", second.Decisions[0].Reason)
	assert.Equal(t, "c", second.Decisions[0].LoserID)
}

func TestDeduplicateKeylessResource(t *testing.T) {
	in := []types.Resource{
		{ID: "k1", Source: "static"},
		{ID: "k2", Source: "static"},
	}
	res := Deduplicate(in)
	assert.Len(t, res.Resources, 2)
	assert.Equal(t, 2, res.Clusters)
}

// --- Phase 2 ---

func heuristicPair() (types.Resource, types.Resource) {
	a := paper("oa-1", "openalex", "Scalable Graph Neural Networks for Molecules", "https://openalex.org/W9")
	a.Year = 2021
	a.Authors = []string{"Jane Doe", "Ravi Iyer"}
	b := paper("s2-1", "semantic_scholar", "Scalable graph neural networks for molecules", "https://semanticscholar.org/p/9")
	b.Year = 2022
	b.Authors = []string{"JANE DOE "}
	return a, b
}

func TestDeduplicateHeuristicMerge(t *testing.T) {
	a, b := heuristicPair()
	res := Deduplicate([]types.Resource{a, b})
	require.Len(t, res.Resources, 1)
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, types.Decision{WinnerID: "oa-1", LoserID: "s2-1", Reason: ReasonHeuristic}, res.Decisions[0])
	assert.Equal(t, 2, res.Clusters)
}

func TestDeduplicateHeuristicGuards(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a, b *types.Resource)
	}{
		{"different type", func(a, b *types.Resource) { b.Type = types.TypeDataset }},
		{"missing type", func(a, b *types.Resource) { a.Type = "" }},
		{"years too far apart", func(a, b *types.Resource) { b.Year = 2023 }},
		{"no shared author", func(a, b *types.Resource) { b.Authors = []string{"Someone Else"} }},
		{"no authors", func(a, b *types.Resource) { a.Authors = nil }},
		{"dissimilar titles", func(a, b *types.Resource) { b.Title = "Scalable Graph Neural Networks" }},
		{"generic title", func(a, b *types.Resource) { a.Title = " Dataset "; b.Title = "dataset" }},
		{"readme title", func(a, b *types.Resource) { a.Title = "README"; b.Title = "README" }},
		{"introduction title", func(a, b *types.Resource) { a.Title = "Introduction"; b.Title = "Introduction" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := heuristicPair()
			tt.mutate(&a, &b)
			res := Deduplicate([]types.Resource{a, b})
			assert.Len(t, res.Resources, 2)
			assert.Zero(t, res.Merges)
		})
	}
}

func TestDeduplicateHeuristicAllowsMissingYear(t *testing.T) {
	a, b := heuristicPair()
	b.Year = 0
	res := Deduplicate([]types.Resource{a, b})
	assert.Len(t, res.Resources, 1)
}

func TestDeduplicateMissingTitle(t *testing.T) {
	in := []types.Resource{
		{ID: "1", Type: types.TypeVideo, Source: "videos", URL: "https://v.example/1"},
		{ID: "2", Type: types.TypeVideo, Source: "videos", URL: "https://v.example/2", Authors: []string{"x"}},
	}
	res := Deduplicate(in)
	assert.Len(t, res.Resources, 2)
}

func TestDeduplicateIdempotent(t *testing.T) {
	a, b := heuristicPair()
	c := paper("W1", "openalex", "Graph Methods", "https://openalex.org/W1")
	c.Meta = types.Meta{"doi": "10.1/abc"}
	d := paper("2101.00001", "arxiv", "Graph methods", "https://arxiv.org/abs/2101.00001")
	d.Meta = types.Meta{"doi": "10.1/ABC"}
	e := paper("z", "zenodo", "Unrelated", "https://zenodo.org/records/5")

	first := Deduplicate([]types.Resource{a, c, b, d, e})
	require.Len(t, first.Resources, 3)

	second := Deduplicate(first.Resources)
	assert.Equal(t, first.Resources, second.Resources)
	assert.Zero(t, second.Merges)
}

func TestDeduplicateURLFromFirstRecord(t *testing.T) {
	a := paper("a", "openalex", "Same", "https://first.example/a")
	a.Meta = types.Meta{"doi": "10.2/q"}
	b := paper("b", "arxiv", "Same", "https://second.example/b")
	b.Meta = types.Meta{"doi": "10.2/q"}

	ab := Deduplicate([]types.Resource{a, b}).Resources[0]
	ba := Deduplicate([]types.Resource{b, a}).Resources[0]
	assert.Equal(t, a.URL, ab.URL)
	assert.Equal(t, b.URL, ba.URL)
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Attention Is All You Need", "attention is all you need!", 1.0},
		{"short tokens dropped", "A Is Of", "An On", 0.0},
		{"half", "graph neural networks molecules", "graph neural", 0.5},
		{"empty", "", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TitleSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
