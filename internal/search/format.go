// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// FormatTable writes a human-readable result table to w.
func FormatTable(env types.Envelope, w io.Writer) {
	if len(env.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-8s  %-20s  %-4s  %-5s  %s\n",
		"Rank", "Title", "Type", "Authors", "Year", "Score", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	offset := (env.Page - 1) * env.Limit
	for i, r := range env.Results {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-8s  %-20s  %-4s  %-5.2f  %s\n",
			offset+i+1, truncate(r.Title, 50), r.Type, formatAuthors(r.Authors), year, r.Score, formatSources(r))
	}

	fmt.Fprintf(w, "\n%d of %d results (page %d)", len(env.Results), env.Total, env.Page)
	if env.Coverage.Merged > 0 {
		fmt.Fprintf(w, ", %d duplicates merged", env.Coverage.Merged)
	}
	fmt.Fprintln(w)
	for _, name := range env.Coverage.RequestedProviders {
		if env.Coverage.ReceivedCounts[name] == 0 {
			fmt.Fprintf(w, "  %s: no results\n", name)
		}
	}
	for _, d := range env.Decisions {
		fmt.Fprintf(w, "  merged %s into %s (%s)\n", d.LoserID, d.WinnerID, d.Reason)
	}
}

// FormatJSON writes the envelope as indented JSON to w.
func FormatJSON(env types.Envelope, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// formatSources lists every contributing provider of a merged record.
func formatSources(r types.Resource) string {
	refs := r.Meta.Sources()
	if len(refs) == 0 {
		return r.Source
	}
	names := make([]string, 0, len(refs))
	seen := make(map[string]bool)
	for _, ref := range refs {
		if !seen[ref.Source] {
			seen[ref.Source] = true
			names = append(names, ref.Source)
		}
	}
	return strings.Join(names, ",")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
