// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ecosyz/internal/httputil"
	"github.com/pdiddy/ecosyz/internal/normalize"
	"github.com/pdiddy/ecosyz/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,url,fieldsOfStudy,isOpenAccess"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SemanticScholar) Name() string { return "semantic_scholar" }

// Search queries the Semantic Scholar API.
func (b *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(min(limit, 100))},
		"fields": {semanticFields},
	}
	header := http.Header{}
	if b.APIKey != "" {
		header.Set("x-api-key", b.APIKey)
	}

	var sr semanticResponse
	if err := httputil.GetJSON(ctx, b.Client, semanticAPIBase+"?"+params.Encode(), header, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar search: %w", err)
	}

	results := make([]types.Resource, 0, len(sr.Data))
	for _, paper := range sr.Data {
		r := types.Resource{
			ID:          paper.PaperID,
			Type:        types.TypePaper,
			Title:       strings.TrimSpace(paper.Title),
			Year:        paper.Year,
			Source:      b.Name(),
			URL:         paper.URL,
			Description: paper.Abstract,
			Tags:        paper.FieldsOfStudy,
			Meta: types.Meta{
				"paper_id": paper.PaperID,
				"is_oa":    paper.IsOpenAccess,
			},
		}
		for _, a := range paper.Authors {
			r.Authors = append(r.Authors, a.Name)
		}
		if r.URL == "" && paper.PaperID != "" {
			r.URL = "https://www.semanticscholar.org/paper/" + paper.PaperID
		}

		// Prefer DOI, then arXiv ID, as identifier.
		if paper.ExternalIDs.DOI != "" {
			doi := normalize.StripDOI(paper.ExternalIDs.DOI)
			r.ID = doi
			r.Meta[types.MetaDOI] = doi
		} else if paper.ExternalIDs.ArXiv != "" {
			r.ID = paper.ExternalIDs.ArXiv
		}
		if paper.ExternalIDs.ArXiv != "" {
			r.Meta["arxiv_id"] = paper.ExternalIDs.ArXiv
		}
		if paper.ExternalIDs.CorpusID != 0 {
			r.Meta["corpus_id"] = paper.ExternalIDs.CorpusID
		}

		results = append(results, r)
	}
	return results, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	URL           string              `json:"url"`
	IsOpenAccess  bool                `json:"isOpenAccess"`
	FieldsOfStudy []string            `json:"fieldsOfStudy"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
