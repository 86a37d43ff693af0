// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter selects papers from a ranked citation network by quality
// presets combining co-citation, citation, and venue criteria.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Preset is a named set of quality thresholds. Zero values disable a
// criterion.
type Preset struct {
	Name           string   `json:"name"`
	Label          string   `json:"label"`
	MinCoCitations int      `json:"min_co_citations,omitempty"`
	MinRankIndex   int      `json:"min_rank_index,omitempty"`
	Quartiles      []string `json:"quartiles,omitempty"`
	MinCitations   int      `json:"min_citations,omitempty"`
}

// Built-in presets, from most to least selective.
var presets = []Preset{
	{Name: "strict", Label: "High quality", MinCoCitations: 3, MinRankIndex: 100, Quartiles: []string{"Q1"}, MinCitations: 20},
	{Name: "balanced", Label: "Medium quality", MinCoCitations: 2, MinRankIndex: 50, Quartiles: []string{"Q1", "Q2"}, MinCitations: 10},
	{Name: "broad", Label: "Broad scope", MinCoCitations: 1, MinRankIndex: 20, Quartiles: []string{"Q1", "Q2", "Q3"}, MinCitations: 5},
	{Name: "all", Label: "No filtering"},
}

// Presets returns the built-in presets in order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Quartiles = slices.Clone(p.Quartiles)
		out[i] = p
	}
	return out
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown filter %q (want strict, balanced, broad or all)", name)
}

// Describe lists the active criteria of p.
func (p Preset) Describe() string {
	var parts []string
	if p.MinCoCitations > 0 {
		parts = append(parts, fmt.Sprintf("co-cited by >= %d seeds", p.MinCoCitations))
	}
	if p.MinRankIndex > 0 {
		parts = append(parts, fmt.Sprintf("venue rank >= %d", p.MinRankIndex))
	}
	if len(p.Quartiles) > 0 {
		parts = append(parts, "quartile in "+strings.Join(p.Quartiles, "/"))
	}
	if p.MinCitations > 0 {
		parts = append(parts, fmt.Sprintf("cited >= %d times", p.MinCitations))
	}
	if len(parts) == 0 {
		return "everything"
	}
	return strings.Join(parts, ", ")
}

// Match reports whether paper satisfies p. Venue criteria apply only when
// the paper has venue metrics. Co-citation is ignored when expanded is
// false, since no graph signal exists then.
func (p Preset) Match(paper *types.Paper, expanded bool) bool {
	if expanded && paper.CoCitationCount < p.MinCoCitations {
		return false
	}
	if paper.CitationCount < p.MinCitations {
		return false
	}
	if m := paper.VenueMetrics; m != nil {
		if m.RankIndex < p.MinRankIndex {
			return false
		}
		if len(p.Quartiles) > 0 && !slices.Contains(p.Quartiles, m.Quartile) {
			return false
		}
	}
	return true
}

// Apply returns the papers of network matching p, in ranked order. The
// co-citation criterion is skipped when the network holds only seeds.
func Apply(network types.PaperMap, p Preset) []*types.Paper {
	return Select(network.Ranked(), p, len(network) > network.Seeds())
}

// Select keeps the papers matching p, preserving order.
func Select(papers []*types.Paper, p Preset, expanded bool) []*types.Paper {
	var out []*types.Paper
	for _, paper := range papers {
		if p.Match(paper, expanded) {
			out = append(out, paper)
		}
	}
	return out
}

// Count is the number of papers a preset would keep.
type Count struct {
	Preset Preset `json:"preset"`
	Papers int    `json:"papers"`
}

// Counts evaluates every built-in preset against papers. expanded says
// whether a citation network backs the co-citation criterion.
func Counts(papers []*types.Paper, expanded bool) []Count {
	var out []Count
	for _, p := range Presets() {
		out = append(out, Count{Preset: p, Papers: len(Select(papers, p, expanded))})
	}
	return out
}
