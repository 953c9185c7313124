// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// MetaSources is the Meta key holding the list of contributing records.
const MetaSources = "sources"

// Well-known Meta keys read by the key deriver.
const (
	MetaDOI   = "doi"
	MetaSWHID = "swhid"
)

// SourceRef names one contributing record of a merged Resource.
type SourceRef struct {
	Source string `json:"source" yaml:"source"`
	URL    string `json:"url" yaml:"url"`
}

// Meta is an open bag of provider-specific fields. Values are strings,
// numbers, booleans, lists, or maps; "sources" holds []SourceRef.
type Meta map[string]any

// String returns the value under key when it is a non-empty string.
func (m Meta) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// Sources returns the "sources" list. It accepts both the typed form set by
// the merge policy and the generic form produced by decoding JSON or YAML.
func (m Meta) Sources() []SourceRef {
	if m == nil {
		return nil
	}
	switch v := m[MetaSources].(type) {
	case []SourceRef:
		return v
	case []any:
		refs := make([]SourceRef, 0, len(v))
		for _, item := range v {
			if ref, ok := toSourceRef(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs
	default:
		return nil
	}
}

func toSourceRef(v any) (SourceRef, bool) {
	switch x := v.(type) {
	case SourceRef:
		return x, true
	case map[string]any:
		src, _ := x["source"].(string)
		u, _ := x["url"].(string)
		return SourceRef{Source: src, URL: u}, true
	default:
		return SourceRef{}, false
	}
}

// Clone returns a shallow copy of m.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
