// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared records of the paperrank pipeline: the
// canonical Paper, its venue metrics, the graph metadata record (Work), the
// canonical paper mapping, and configuration.
package types

import (
	"sort"
	"strings"
)

// VenueMetrics holds prestige signals for a publication venue.
type VenueMetrics struct {
	// PrestigeScore is the venue impact proxy (e.g. Scimago SJR).
	PrestigeScore float64 `json:"prestige_score" yaml:"prestige_score"`

	// RankIndex is the venue rank proxy (e.g. venue H index).
	RankIndex int `json:"rank_index" yaml:"rank_index"`

	// Quartile is the best quartile of the venue ("Q1".."Q4"), empty if unknown.
	Quartile string `json:"quartile,omitempty" yaml:"quartile,omitempty"`
}

// Paper is a bibliographic record. A Paper is owned by exactly one PaperMap
// at a time and is mutated in place by merge, expansion, and scoring.
type Paper struct {
	// Key is the canonical key under which the paper is stored: the
	// normalized DOI when known, otherwise the normalized title key.
	Key string `json:"key" yaml:"key"`

	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Year    int    `json:"year,omitempty" yaml:"year,omitempty"`
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Venue   string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Sources lists the adapters that contributed to this record, sorted and
	// unique. It only grows.
	Sources []string `json:"sources" yaml:"sources"`

	OpenAlexID        string `json:"openalex_id,omitempty" yaml:"openalex_id,omitempty"`
	SemanticScholarID string `json:"semantic_scholar_id,omitempty" yaml:"semantic_scholar_id,omitempty"`
	ArxivID           string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	CitationCount            int    `json:"citation_count" yaml:"citation_count"`
	InfluentialCitationCount int    `json:"influential_citation_count" yaml:"influential_citation_count"`
	PDFLink                  string `json:"pdf_link,omitempty" yaml:"pdf_link,omitempty"`

	IsSeed            bool     `json:"is_seed" yaml:"is_seed"`
	References        []string `json:"references,omitempty" yaml:"references,omitempty"`
	Citations         []string `json:"citations,omitempty" yaml:"citations,omitempty"`
	CoCitationCount   int      `json:"co_citation_count" yaml:"co_citation_count"`
	NetworkCentrality float64  `json:"network_centrality" yaml:"network_centrality"`

	VenueMetrics *VenueMetrics `json:"venue_metrics,omitempty" yaml:"venue_metrics,omitempty"`

	CitationsPerYear float64 `json:"citations_per_year" yaml:"citations_per_year"`
	AuthorAuthority  int     `json:"author_authority" yaml:"author_authority"`
	CompositeScore   float64 `json:"composite_score" yaml:"composite_score"`
}

// HasSource reports whether name is among the contributing sources.
func (p *Paper) HasSource(name string) bool {
	i := sort.SearchStrings(p.Sources, name)
	return i < len(p.Sources) && p.Sources[i] == name
}

// AddSource records name as a contributing source. Empty names and
// duplicates are ignored.
func (p *Paper) AddSource(name string) {
	if name == "" || p.HasSource(name) {
		return
	}
	p.Sources = append(p.Sources, name)
	sort.Strings(p.Sources)
}

// FirstAuthor returns the first listed author of the free-text author
// string, or "" when there is none.
func (p *Paper) FirstAuthor() string {
	first, _, _ := strings.Cut(p.Authors, ",")
	return strings.TrimSpace(first)
}

// Clone returns a deep copy of the paper.
func (p *Paper) Clone() *Paper {
	c := *p
	c.Sources = append([]string(nil), p.Sources...)
	c.References = append([]string(nil), p.References...)
	c.Citations = append([]string(nil), p.Citations...)
	if p.VenueMetrics != nil {
		vm := *p.VenueMetrics
		c.VenueMetrics = &vm
	}
	return &c
}

// PaperMap is the canonical paper mapping: canonical key to Paper. No two
// entries describe the same real-world paper.
type PaperMap map[string]*Paper

// Keys returns the canonical keys in sorted order.
func (m PaperMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Papers returns the papers ordered by canonical key.
func (m PaperMap) Papers() []*Paper {
	out := make([]*Paper, 0, len(m))
	for _, k := range m.Keys() {
		out = append(out, m[k])
	}
	return out
}

// Seeds returns the number of seed papers in the mapping.
func (m PaperMap) Seeds() int {
	n := 0
	for _, p := range m {
		if p.IsSeed {
			n++
		}
	}
	return n
}

// Ranked returns the papers ordered by descending composite score, ties
// broken by canonical key.
func (m PaperMap) Ranked() []*Paper {
	out := m.Papers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompositeScore > out[j].CompositeScore
	})
	return out
}

// Work is the metadata record returned by a bibliographic graph API.
type Work struct {
	// ID is the opaque graph identifier (e.g. OpenAlex "W2741809807").
	ID            string
	DOI           string
	Title         string
	Year          int
	Authors       string
	Venue         string
	CitationCount int
	PDFLink       string
	// ReferencedIDs lists the graph identifiers this work references, when
	// the API returned them.
	ReferencedIDs []string
}
