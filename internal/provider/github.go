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

// githubAPIBase is the GitHub repository search endpoint.
var githubAPIBase = "https://api.github.com/search/repositories"

// GitHub queries GitHub repository search for code.
type GitHub struct {
	Client *http.Client
	Token  string
}

// Name returns the backend identifier.
func (b *GitHub) Name() string { return "github" }

// Search queries the GitHub search API.
func (b *GitHub) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	params := url.Values{
		"q":        {query},
		"per_page": {strconv.Itoa(min(limit, 100))},
	}
	header := http.Header{
		"Accept":               {"application/vnd.github+json"},
		"X-Github-Api-Version": {"2022-11-28"},
	}
	if b.Token != "" {
		header.Set("Authorization", "Bearer "+b.Token)
	}

	var gr githubResponse
	if err := httputil.GetJSON(ctx, b.Client, githubAPIBase+"?"+params.Encode(), header, &gr); err != nil {
		return nil, fmt.Errorf("GitHub search: %w", err)
	}

	results := make([]types.Resource, 0, len(gr.Items))
	for _, repo := range gr.Items {
		r := types.Resource{
			ID:          repo.FullName,
			Type:        types.TypeCode,
			Title:       repo.FullName,
			Year:        yearOf(repo.CreatedAt),
			Source:      b.Name(),
			URL:         repo.HTMLURL,
			Description: strings.TrimSpace(repo.Description),
			Tags:        repo.Topics,
			Meta: types.Meta{
				"stars":    repo.Stars,
				"forks":    repo.Forks,
				"language": repo.Language,
				"pushed":   repo.PushedAt,
			},
		}
		if repo.Owner.Login != "" {
			r.Authors = []string{repo.Owner.Login}
		}
		if repo.License != nil {
			r.License = repo.License.SPDXID
		}
		results = append(results, r)
	}
	return results, nil
}

// GitHub API JSON structures.
type githubResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []githubRepo `json:"items"`
}

type githubRepo struct {
	FullName    string         `json:"full_name"`
	HTMLURL     string         `json:"html_url"`
	Description string         `json:"description"`
	Topics      []string       `json:"topics"`
	Language    string         `json:"language"`
	Stars       int            `json:"stargazers_count"`
	Forks       int            `json:"forks_count"`
	CreatedAt   string         `json:"created_at"`
	PushedAt    string         `json:"pushed_at"`
	Owner       githubOwner    `json:"owner"`
	License     *githubLicense `json:"license"`
}

type githubOwner struct {
	Login string `json:"login"`
}

type githubLicense struct {
	SPDXID string `json:"spdx_id"`
}
