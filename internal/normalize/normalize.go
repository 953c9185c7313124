// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes identifiers, URLs, titles, and author names
// so records from different providers can be compared. All functions are pure
// and never fail; unparseable input falls back to a lower-cased form.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var doiPrefix = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)

// StripDOI lower-cases a DOI and removes resolver and "doi:" prefixes.
func StripDOI(doi string) string {
	s := strings.ToLower(strings.TrimSpace(doi))
	s = doiPrefix.ReplaceAllString(s, "")
	s = strings.TrimPrefix(s, "doi:")
	return strings.TrimSpace(s)
}

// URL canonicalizes a resource URL: the fragment is cleared, tracking
// parameters (utm_*, ref*) are dropped, the host is lower-cased, and a single
// trailing slash is stripped from the path. Input that does not parse as an
// absolute URL is lower-cased and has one trailing slash removed.
func URL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(strings.ToLower(raw), "/")
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = dropTracking(u.RawQuery)

	if u.RawPath != "" {
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// dropTracking removes parameters whose key starts with utm_ or ref, matched
// case-sensitively, while keeping the order of the remaining pairs.
func dropTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if strings.HasPrefix(key, "utm_") || strings.HasPrefix(key, "ref") {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// Title lower-cases a title, replaces punctuation and symbols with spaces,
// and collapses whitespace.
func Title(title string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, strings.ToLower(title))
	return strings.Join(strings.Fields(mapped), " ")
}

// Authors lower-cases and trims each author name.
func Authors(authors []string) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = strings.ToLower(strings.TrimSpace(a))
	}
	return out
}
