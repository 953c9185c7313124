// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ecosyz/internal/httputil"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// swhAPIBase is the Software Heritage origin search endpoint. The query is
// appended as a path segment.
var swhAPIBase = "https://archive.softwareheritage.org/api/1/origin/search/"

// SoftwareHeritage queries the Software Heritage archive for code origins.
type SoftwareHeritage struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *SoftwareHeritage) Name() string { return "softwareheritage" }

// Search queries the Software Heritage origin search API.
func (b *SoftwareHeritage) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"limit":      {strconv.Itoa(limit)},
		"with_visit": {"true"},
	}
	reqURL := swhAPIBase + url.PathEscape(query) + "/?" + params.Encode()

	var origins []swhOrigin
	if err := httputil.GetJSON(ctx, b.Client, reqURL, nil, &origins); err != nil {
		return nil, fmt.Errorf("Software Heritage search: %w", err)
	}

	results := make([]types.Resource, 0, len(origins))
	for _, o := range origins {
		if o.URL == "" {
			continue
		}
		swhid := OriginSWHID(o.URL)
		results = append(results, types.Resource{
			ID:     swhid,
			Type:   types.TypeCode,
			Title:  originTitle(o.URL),
			Source: b.Name(),
			URL:    o.URL,
			Meta: types.Meta{
				types.MetaSWHID: swhid,
				"visits_url":    o.VisitsURL,
			},
		})
	}
	return results, nil
}

// OriginSWHID returns the origin identifier for an archived URL: the SHA-1
// of the URL, in SWHID form.
func OriginSWHID(originURL string) string {
	sum := sha1.Sum([]byte(originURL))
	return "swh:1:ori:" + hex.EncodeToString(sum[:])
}

// originTitle derives a display title from an origin URL, e.g.
// "https://github.com/owner/repo" → "owner/repo".
func originTitle(originURL string) string {
	u, err := url.Parse(originURL)
	if err != nil || u.Host == "" {
		return originURL
	}
	path := strings.Trim(strings.TrimSuffix(u.Path, ".git"), "/")
	if path == "" {
		return u.Host
	}
	return path
}

type swhOrigin struct {
	URL       string `json:"url"`
	VisitsURL string `json:"origin_visits_url"`
}
