// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package venue looks up prestige metrics for free-text venue names against
// a reference table, matching exactly first and fuzzily second.
package venue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/pkg/types"
)

// DefaultCutoff is the minimum token-sort similarity (0-100) for a fuzzy match.
const DefaultCutoff = 90

const defaultMemoSize = 2048

// Entry is one row of the reference table.
type Entry struct {
	Title   string
	Metrics types.VenueMetrics
}

// Table is an in-memory venue reference table. It is safe for concurrent
// use once built.
type Table struct {
	entries []Entry
	exact   map[string]int // lower-cased title -> index
	sorted  []string       // token-sorted folded title per entry
	cutoff  float64
	memo    *lru.Cache[string, int] // cleaned name -> index, -1 for no match
}

// Option configures a Table.
type Option func(*Table)

// WithCutoff sets the minimum fuzzy similarity (0-100).
func WithCutoff(cutoff float64) Option {
	return func(t *Table) { t.cutoff = cutoff }
}

// NewTable builds a lookup table over entries. The first entry wins when
// two share a title.
func NewTable(entries []Entry, opts ...Option) *Table {
	t := &Table{
		entries: entries,
		exact:   make(map[string]int, len(entries)),
		sorted:  make([]string, len(entries)),
		cutoff:  DefaultCutoff,
	}
	for i, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Title))
		if _, ok := t.exact[key]; !ok {
			t.exact[key] = i
		}
		t.sorted[i] = tokenSort(e.Title)
	}
	t.memo, _ = lru.New[string, int](defaultMemoSize)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Metrics returns the metrics for venue. It tries an exact case-insensitive
// match, then the best fuzzy match at or above the cutoff. The second
// return value is false when nothing matched.
func (t *Table) Metrics(venue string) (types.VenueMetrics, bool) {
	if t == nil || len(t.entries) == 0 {
		return types.VenueMetrics{}, false
	}
	cleaned := strings.TrimSpace(html.UnescapeString(venue))
	if cleaned == "" {
		return types.VenueMetrics{}, false
	}

	if i, ok := t.exact[strings.ToLower(cleaned)]; ok {
		return t.entries[i].Metrics, true
	}

	if i, ok := t.memo.Get(cleaned); ok {
		if i < 0 {
			return types.VenueMetrics{}, false
		}
		return t.entries[i].Metrics, true
	}

	i := t.bestFuzzy(cleaned)
	t.memo.Add(cleaned, i)
	if i < 0 {
		return types.VenueMetrics{}, false
	}
	return t.entries[i].Metrics, true
}

// bestFuzzy returns the index of the highest-scoring entry at or above the
// cutoff, or -1. Ties keep the earliest entry.
func (t *Table) bestFuzzy(name string) int {
	query := tokenSort(name)
	if query == "" {
		return -1
	}
	best, bestScore := -1, -1.0
	for i, candidate := range t.sorted {
		score := ratio(query, candidate)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore < t.cutoff {
		return -1
	}
	return best
}

func tokenSort(s string) string {
	tokens := strings.Fields(identity.FoldText(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is 100 * (1 - distance / longer length), in runes.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// LoadFile reads a semicolon-separated venue table from path.
func LoadFile(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening venue table: %w", err)
	}
	defer f.Close()

	entries, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return NewTable(entries, opts...), nil
}

// ParseCSV reads a Scimago-style export: semicolon separated, a header row
// with "Title", "SJR", "H index", and "SJR Best Quartile" columns, and
// decimal commas in numeric cells. Rows with an empty title are skipped;
// unparsable numbers read as zero.
func ParseCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("venue table is empty")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	titleCol, ok := cols["Title"]
	if !ok {
		return nil, fmt.Errorf("venue table has no Title column")
	}
	sjrCol, hasSJR := cols["SJR"]
	hCol, hasH := cols["H index"]
	qCol, hasQ := cols["SJR Best Quartile"]

	var entries []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		title := field(rec, titleCol)
		if title == "" {
			continue
		}
		e := Entry{Title: title}
		if hasSJR {
			e.Metrics.PrestigeScore = parseDecimal(field(rec, sjrCol))
		}
		if hasH {
			e.Metrics.RankIndex = int(parseDecimal(field(rec, hCol)))
		}
		if hasQ {
			if q := field(rec, qCol); q != "-" {
				e.Metrics.Quartile = q
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}
