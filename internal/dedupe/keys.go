// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"strings"

	"github.com/pdiddy/ecosyz/internal/normalize"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// Key kinds in decreasing order of confidence. The kind doubles as the
// Decision reason when a key of that kind matches.
const (
	KindDOI      = "doi"
	KindSWH      = "swh"
	KindURL      = "url"
	KindSrcTitle = "srctitle"

	// ReasonHeuristic is the Decision reason for a title/year/author merge.
	ReasonHeuristic = "tya"
)

// DeriveKeys returns the identity keys of r in priority order, each prefixed
// by its kind. Kinds with an empty value are omitted, so the result may be empty.
func DeriveKeys(r types.Resource) []string {
	var keys []string
	if doi := normalize.StripDOI(r.Meta.String(types.MetaDOI)); doi != "" {
		keys = append(keys, KindDOI+":"+doi)
	}
	if swhid := strings.ToLower(r.Meta.String(types.MetaSWHID)); swhid != "" {
		keys = append(keys, KindSWH+":"+swhid)
	}
	if strings.TrimSpace(r.URL) != "" {
		if u := normalize.URL(r.URL); u != "" {
			keys = append(keys, KindURL+":"+u)
		}
	}
	// Title keys are scoped to one source: equal titles across providers are
	// not enough evidence on their own.
	if t := normalize.Title(r.Title); t != "" {
		keys = append(keys, KindSrcTitle+":"+r.Source+":"+t)
	}
	return keys
}

// keyKind returns the prefix of key up to the first colon.
func keyKind(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
