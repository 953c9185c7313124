// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// Merge combines two records describing the same item. Scalar fields take
// b's value when b has one and a's otherwise; the exceptions are:
//
//   - URL is always a's: the leftmost contributing record donates the link.
//   - Description is the longer of the two; ties keep a's.
//   - License is a's unless a asserts none, so a merge never downgrades an
//     asserted license to NOASSERTION.
//   - Authors and Tags are case-insensitive unions, a's entries first.
//   - Meta is a's keys overlaid with b's, with "sources" replaced by the
//     union of both records' sources deduplicated by (source, url).
//
// Merge does not modify its arguments.
func Merge(a, b types.Resource) types.Resource {
	out := a

	if b.ID != "" {
		out.ID = b.ID
	}
	if b.Type != "" {
		out.Type = b.Type
	}
	if b.Title != "" {
		out.Title = b.Title
	}
	if b.Year != 0 {
		out.Year = b.Year
	}
	if b.Source != "" {
		out.Source = b.Source
	}
	if b.Score != 0 {
		out.Score = b.Score
	}

	out.URL = a.URL

	out.Description = a.Description
	if utf8.RuneCountInString(b.Description) > utf8.RuneCountInString(a.Description) {
		out.Description = b.Description
	}

	if a.HasLicense() {
		out.License = a.License
	} else {
		out.License = types.NormalizeLicense(b.License)
	}

	out.Authors = unionFold(a.Authors, b.Authors)
	out.Tags = unionFold(a.Tags, b.Tags)

	meta := make(types.Meta, len(a.Meta)+len(b.Meta)+1)
	for k, v := range a.Meta {
		meta[k] = v
	}
	for k, v := range b.Meta {
		meta[k] = v
	}
	meta[types.MetaSources] = unionSources(sourcesOf(a), sourcesOf(b))
	out.Meta = meta

	return out
}

// sourcesOf returns r's recorded sources, or its own (source, url) pair when
// it has not been merged before.
func sourcesOf(r types.Resource) []types.SourceRef {
	if refs := r.Meta.Sources(); len(refs) > 0 {
		return refs
	}
	return []types.SourceRef{{Source: r.Source, URL: r.URL}}
}

func unionSources(a, b []types.SourceRef) []types.SourceRef {
	seen := make(map[types.SourceRef]bool, len(a)+len(b))
	out := make([]types.SourceRef, 0, len(a)+len(b))
	for _, list := range [][]types.SourceRef{a, b} {
		for _, ref := range list {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}

// unionFold returns the case-insensitive union of a and b, keeping the first
// spelling of each entry. It returns nil when both inputs are empty.
func unionFold(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			k := strings.ToLower(strings.TrimSpace(s))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}
