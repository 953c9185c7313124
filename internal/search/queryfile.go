// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// QueryFile is the on-disk representation of a query and its envelope. A
// saved search can be reloaded later without re-querying providers.
type QueryFile struct {
	Query    QueryParams    `yaml:"query"`
	Envelope types.Envelope `yaml:"envelope"`
	SavedAt  time.Time      `yaml:"saved_at"`
}

// QueryParams stores the query signature in a serializable form.
type QueryParams struct {
	Q     string `yaml:"q"`
	Type  string `yaml:"type"`
	Page  int    `yaml:"page"`
	Limit int    `yaml:"limit"`
	Debug bool   `yaml:"debug,omitempty"`
}

// WriteQueryFile saves the request and its envelope to a YAML file.
func WriteQueryFile(path string, req Request, env types.Envelope) error {
	qf := QueryFile{
		Query: QueryParams{
			Q:     req.Q,
			Type:  req.Type,
			Page:  env.Page,
			Limit: env.Limit,
			Debug: req.Debug,
		},
		Envelope: env,
		SavedAt:  time.Now().UTC(),
	}
	if qf.Query.Type == "" {
		qf.Query.Type = types.TypeAll
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToRequest converts stored QueryParams back into a Request.
func (p QueryParams) ToRequest() Request {
	return Request{Q: p.Q, Type: p.Type, Page: p.Page, Limit: p.Limit, Debug: p.Debug}
}
