// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ecosyz/pkg/types"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Static serves a fixed, curated list of resources. A record matches when
// its title or description contains the query, ignoring case.
type Static struct {
	name  string
	items []types.Resource
}

// NewStatic returns a Static backend over items. Each item's Source and
// Type are forced to name and typ.
func NewStatic(name string, typ types.ResourceType, items []types.Resource) *Static {
	own := make([]types.Resource, len(items))
	for i, r := range items {
		r.Source = name
		r.Type = typ
		r.License = types.NormalizeLicense(r.License)
		own[i] = r
	}
	return &Static{name: name, items: own}
}

// LoadFixture builds a Static backend from an embedded YAML fixture.
func LoadFixture(name string, typ types.ResourceType, file string) (*Static, error) {
	data, err := fixtures.ReadFile("fixtures/" + file)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", file, err)
	}
	var items []types.Resource
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", file, err)
	}
	return NewStatic(name, typ, items), nil
}

// Hardware returns the curated open hardware backend.
func Hardware() (*Static, error) {
	return LoadFixture("hardware", types.TypeHardware, "hardware.yaml")
}

// Videos returns the curated lecture video backend.
func Videos() (*Static, error) {
	return LoadFixture("videos", types.TypeVideo, "videos.yaml")
}

// Name returns the backend identifier.
func (s *Static) Name() string { return s.name }

// Search filters the fixture by substring.
func (s *Static) Search(_ context.Context, query string, limit int) ([]types.Resource, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []types.Resource
	for _, r := range s.items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Description), q) {
			r.Authors = append([]string(nil), r.Authors...)
			r.Tags = append([]string(nil), r.Tags...)
			r.Meta = r.Meta.Clone()
			out = append(out, r)
		}
	}
	return out, nil
}
