// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/ecosyz/internal/httputil"
	"github.com/pdiddy/ecosyz/internal/normalize"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// zenodoAPIBase is the Zenodo records search endpoint.
var zenodoAPIBase = "https://zenodo.org/api/records"

// Zenodo queries Zenodo for deposited datasets.
type Zenodo struct {
	Client *http.Client
	Token  string
}

// Name returns the backend identifier.
func (b *Zenodo) Name() string { return "zenodo" }

// Search queries the Zenodo records API.
func (b *Zenodo) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"q":    {query},
		"size": {strconv.Itoa(limit)},
		"type": {"dataset"},
		"sort": {"bestmatch"},
	}
	header := http.Header{"Accept": {"application/json"}}
	if b.Token != "" {
		header.Set("Authorization", "Bearer "+b.Token)
	}

	var zr zenodoResponse
	if err := httputil.GetJSON(ctx, b.Client, zenodoAPIBase+"?"+params.Encode(), header, &zr); err != nil {
		return nil, fmt.Errorf("Zenodo search: %w", err)
	}

	results := make([]types.Resource, 0, len(zr.Hits.Hits))
	for _, rec := range zr.Hits.Hits {
		md := rec.Metadata
		r := types.Resource{
			ID:          strconv.FormatInt(rec.ID, 10),
			Type:        zenodoType(md.ResourceType.Type),
			Title:       strings.TrimSpace(md.Title),
			Year:        yearOf(md.PublicationDate),
			Source:      b.Name(),
			URL:         rec.Links.SelfHTML,
			License:     md.License.ID,
			Description: stripHTML(md.Description),
			Tags:        md.Keywords,
			Meta:        types.Meta{"zenodo_id": rec.ID},
		}
		for _, c := range md.Creators {
			if c.Name != "" {
				r.Authors = append(r.Authors, c.Name)
			}
		}
		if r.URL == "" {
			r.URL = "https://zenodo.org/records/" + r.ID
		}
		if doi := normalize.StripDOI(rec.DOI); doi != "" {
			r.ID = doi
			r.Meta[types.MetaDOI] = doi
		}
		results = append(results, r)
	}
	return results, nil
}

// zenodoType maps a Zenodo resource type to the engine's classification.
// Unrecognised types are treated as datasets.
func zenodoType(t string) types.ResourceType {
	switch t {
	case "software":
		return types.TypeCode
	case "publication":
		return types.TypePaper
	case "video":
		return types.TypeVideo
	default:
		return types.TypeDataset
	}
}

// stripHTML reduces an HTML fragment to its visible text.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, li, div, h1, h2, h3, h4, td").AppendHtml(" ")
	return collapseSpace(doc.Text())
}

// Zenodo API JSON structures.
type zenodoResponse struct {
	Hits struct {
		Hits []zenodoRecord `json:"hits"`
	} `json:"hits"`
}

type zenodoRecord struct {
	ID       int64          `json:"id"`
	DOI      string         `json:"doi"`
	Links    zenodoLinks    `json:"links"`
	Metadata zenodoMetadata `json:"metadata"`
}

type zenodoLinks struct {
	SelfHTML string `json:"self_html"`
}

type zenodoMetadata struct {
	Title           string          `json:"title"`
	PublicationDate string          `json:"publication_date"`
	Description     string          `json:"description"`
	Keywords        []string        `json:"keywords"`
	Creators        []zenodoCreator `json:"creators"`
	License         struct {
		ID string `json:"id"`
	} `json:"license"`
	ResourceType struct {
		Type string `json:"type"`
	} `json:"resource_type"`
}

type zenodoCreator struct {
	Name string `json:"name"`
}
