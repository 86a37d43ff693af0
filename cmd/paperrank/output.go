// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperrank/internal/filter"
	"github.com/pdiddy/paperrank/internal/pipeline"
	"github.com/pdiddy/paperrank/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSearchSummary prints run statistics and, for each quality preset, how
// many of the ranked papers it would keep.
func writeSearchSummary(w io.Writer, res pipeline.Result, counts []filter.Count) {
	fmt.Fprintf(w, "Profile: %s  Records: %d  Unique: %d  DOIs rescued: %d\n",
		res.Profile, res.Stats.Records, res.Stats.Unique, res.Rescued)
	if len(res.Stats.Failed) > 0 {
		fmt.Fprintf(w, "Failed sources: %s\n", strings.Join(res.Stats.Failed, ", "))
	}
	if res.Network != nil {
		fmt.Fprintf(w, "Citation network: %d papers (%d seeds), expanded: %t\n",
			len(res.Network), res.Network.Seeds(), res.Expanded)
	}
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s %d", c.Preset.Name, c.Papers))
		}
		fmt.Fprintf(w, "Papers per filter: %s\n", strings.Join(parts, "  "))
	}
	for _, c := range res.Conflicts {
		fmt.Fprintf(w, "Conflict (%s): %q kept %s, ignored %s\n", c.Source, c.TitleKey, c.KeptDOI, c.IgnoredDOI)
	}
	fmt.Fprintln(w)
}

// writePapers prints a ranked table of papers.
func writePapers(w io.Writer, papers []*types.Paper) error {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-6s  %-4s  %-50s  %-20s  %s\n",
		"Rank", "Score", "Cites", "Year", "Title", "Venue", "DOI")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, p := range papers {
		year := "-"
		if p.Year > 0 {
			year = fmt.Sprint(p.Year)
		}
		title := truncate(p.Title, 50)
		if p.IsSeed {
			title = truncate("* "+p.Title, 50)
		}
		fmt.Fprintf(w, "%-4d  %6.2f  %6d  %-4s  %-50s  %-20s  %s\n",
			i+1, p.CompositeScore, p.CitationCount, year, title, truncate(p.Venue, 20), p.DOI)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
