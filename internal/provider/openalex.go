// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/ecosyz/internal/httputil"
	"github.com/pdiddy/ecosyz/internal/normalize"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex works index for papers and datasets.
type OpenAlex struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlex) Name() string { return "openalex" }

// Search queries the OpenAlex API.
func (b *OpenAlex) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(min(limit, 200))},
		"page":     {"1"},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	var oar openAlexResponse
	if err := httputil.GetJSON(ctx, b.Client, openAlexSearchBase+"?"+params.Encode(), nil, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex search: %w", err)
	}

	results := make([]types.Resource, 0, len(oar.Results))
	for _, work := range oar.Results {
		r := types.Resource{
			ID:          work.ID,
			Type:        types.TypePaper,
			Title:       strings.TrimSpace(work.Title),
			Year:        work.PublicationYear,
			Source:      b.Name(),
			URL:         work.ID,
			License:     work.PrimaryLocation.License,
			Description: reconstructAbstract(work.AbstractInvertedIndex),
			Meta: types.Meta{
				"openalex_id":    work.ID,
				"cited_by_count": work.CitedByCount,
				"is_oa":          work.OpenAccess.IsOA,
			},
		}
		if work.Type == "dataset" {
			r.Type = types.TypeDataset
		}
		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				r.Authors = append(r.Authors, authorship.Author.DisplayName)
			}
		}
		for _, topic := range work.Topics {
			if topic.DisplayName != "" {
				r.Tags = append(r.Tags, topic.DisplayName)
			}
		}

		// OpenAlex is DOI-centric: prefer the bare DOI as identifier and
		// the resolver URL as link.
		if work.DOI != "" {
			doi := normalize.StripDOI(work.DOI)
			r.ID = doi
			r.URL = "https://doi.org/" + doi
			r.Meta[types.MetaDOI] = doi
		} else if work.PrimaryLocation.LandingPageURL != "" {
			r.URL = work.PrimaryLocation.LandingPageURL
		}
		if work.OpenAccess.OAURL != "" {
			r.Meta["oa_url"] = work.OpenAccess.OAURL
		}

		results = append(results, r)
	}
	return results, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	Type                  string               `json:"type"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	Topics                []openAlexTopic      `json:"topics"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
	License        string `json:"license"`
}

type openAlexTopic struct {
	DisplayName string `json:"display_name"`
}
