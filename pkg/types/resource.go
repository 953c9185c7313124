// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ecosyz search engine:
// the normalized Resource record, merge audit Decisions, and the response
// Envelope returned by the query service.
package types

import (
	"maps"
	"slices"
	"strings"
)

// NoAssertion is the license sentinel meaning no license information could be
// determined. A Resource never carries an empty license.
const NoAssertion = "NOASSERTION"

// ResourceType classifies a catalog entry.
type ResourceType string

const (
	TypePaper    ResourceType = "paper"
	TypeDataset  ResourceType = "dataset"
	TypeCode     ResourceType = "code"
	TypeModel    ResourceType = "model"
	TypeHardware ResourceType = "hardware"
	TypeVideo    ResourceType = "video"
)

// TypeAll is the query filter value that matches every resource type.
const TypeAll = "all"

// ResourceTypes lists the valid resource types in display order.
var ResourceTypes = []ResourceType{
	TypePaper, TypeDataset, TypeCode, TypeModel, TypeHardware, TypeVideo,
}

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	for _, v := range ResourceTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Resource is a normalized catalog entry produced by a provider adapter.
// Before merging, records are distinguished by (Source, ID).
type Resource struct {
	// ID is the source-assigned identity (DOI, permanent identifier, or URL).
	ID string `json:"id" yaml:"id"`

	Type  ResourceType `json:"type" yaml:"type"`
	Title string       `json:"title" yaml:"title"`

	// Authors lists creators in source order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year; zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Source is the provider tag (e.g. "openalex", "github").
	Source string `json:"source" yaml:"source"`

	URL string `json:"url" yaml:"url"`

	// License is an SPDX-like identifier or NoAssertion.
	License string `json:"license" yaml:"license"`

	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Meta holds provider-specific and engine-added fields. After a merge it
	// carries a "sources" list of SourceRef values.
	Meta Meta `json:"meta,omitempty" yaml:"meta,omitempty"`

	// Score is written only by the scorer.
	Score float64 `json:"score" yaml:"score"`
}

// HasLicense reports whether the resource asserts a license.
func (r Resource) HasLicense() bool {
	return r.License != "" && r.License != NoAssertion
}

// NormalizeLicense returns l trimmed, or NoAssertion when l is empty.
func NormalizeLicense(l string) string {
	l = strings.TrimSpace(l)
	if l == "" {
		return NoAssertion
	}
	return l
}

// Decision is the audit record of a single merge. Reason is the kind of the
// key that matched: doi, swh, url, srctitle, or tya for a heuristic merge.
type Decision struct {
	WinnerID string `json:"winnerId" yaml:"winner_id"`
	LoserID  string `json:"loserId" yaml:"loser_id"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Coverage is the diagnostics block of an Envelope.
type Coverage struct {
	RequestedProviders []string       `json:"requestedProviders" yaml:"requested_providers"`
	ReceivedCounts     map[string]int `json:"receivedCounts" yaml:"received_counts"`
	UniqueBefore       int            `json:"uniqueBefore" yaml:"unique_before"`
	UniqueAfter        int            `json:"uniqueAfter" yaml:"unique_after"`
	Merged             int            `json:"merged" yaml:"merged"`
}

// Envelope is the query response returned to callers and stored in the cache.
type Envelope struct {
	Results   []Resource `json:"results" yaml:"results"`
	Total     int        `json:"total" yaml:"total"`
	Page      int        `json:"page" yaml:"page"`
	Limit     int        `json:"limit" yaml:"limit"`
	HasMore   bool       `json:"hasMore" yaml:"has_more"`
	Coverage  Coverage   `json:"coverage" yaml:"coverage"`
	Decisions []Decision `json:"decisions,omitempty" yaml:"decisions,omitempty"`
}

// Clone returns a copy of r that shares no slices or maps with it. Meta
// values are copied shallowly.
func (r Resource) Clone() Resource {
	r.Authors = slices.Clone(r.Authors)
	r.Tags = slices.Clone(r.Tags)
	r.Meta = maps.Clone(r.Meta)
	return r
}

// Clone returns a copy of e that shares no results, counts, or decisions
// with it.
func (e Envelope) Clone() Envelope {
	if e.Results != nil {
		rs := make([]Resource, len(e.Results))
		for i, r := range e.Results {
			rs[i] = r.Clone()
		}
		e.Results = rs
	}
	e.Coverage.RequestedProviders = slices.Clone(e.Coverage.RequestedProviders)
	e.Coverage.ReceivedCounts = maps.Clone(e.Coverage.ReceivedCounts)
	e.Decisions = slices.Clone(e.Decisions)
	return e
}
