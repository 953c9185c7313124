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
	"github.com/pdiddy/ecosyz/pkg/types"
)

// huggingFaceAPIBase is the Hugging Face Hub model listing endpoint.
var huggingFaceAPIBase = "https://huggingface.co/api/models"

const licenseTagPrefix = "license:"

// HuggingFace queries the Hugging Face Hub for models.
type HuggingFace struct {
	Client *http.Client
	Token  string
}

// Name returns the backend identifier.
func (b *HuggingFace) Name() string { return "huggingface" }

// Search queries the Hub model search.
func (b *HuggingFace) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"search":    {query},
		"limit":     {strconv.Itoa(limit)},
		"sort":      {"downloads"},
		"direction": {"-1"},
	}
	header := http.Header{}
	if b.Token != "" {
		header.Set("Authorization", "Bearer "+b.Token)
	}

	var models []hfModel
	if err := httputil.GetJSON(ctx, b.Client, huggingFaceAPIBase+"?"+params.Encode(), header, &models); err != nil {
		return nil, fmt.Errorf("Hugging Face search: %w", err)
	}

	results := make([]types.Resource, 0, len(models))
	for _, m := range models {
		id := m.ID
		if id == "" {
			id = m.ModelID
		}
		if id == "" {
			continue
		}
		r := types.Resource{
			ID:     id,
			Type:   types.TypeModel,
			Title:  id,
			Year:   yearOf(m.CreatedAt),
			Source: b.Name(),
			URL:    "https://huggingface.co/" + id,
			Meta: types.Meta{
				"downloads": m.Downloads,
				"likes":     m.Likes,
			},
		}
		if m.PipelineTag != "" {
			r.Meta["pipeline_tag"] = m.PipelineTag
		}

		author := m.Author
		if author == "" {
			if owner, _, ok := strings.Cut(id, "/"); ok {
				author = owner
			}
		}
		if author != "" {
			r.Authors = []string{author}
		}

		for _, tag := range m.Tags {
			if lic, ok := strings.CutPrefix(tag, licenseTagPrefix); ok {
				if r.License == "" {
					r.License = lic
				}
				continue
			}
			r.Tags = append(r.Tags, tag)
		}
		results = append(results, r)
	}
	return results, nil
}

type hfModel struct {
	ID          string   `json:"id"`
	ModelID     string   `json:"modelId"`
	Author      string   `json:"author"`
	Downloads   int      `json:"downloads"`
	Likes       int      `json:"likes"`
	PipelineTag string   `json:"pipeline_tag"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}
