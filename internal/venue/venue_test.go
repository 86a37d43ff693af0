// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperrank/pkg/types"
)

const sampleCSV = `Rank;Sourceid;Title;Type;Issn;SJR;SJR Best Quartile;H index
1;28773;Nature;journal;"00280836";18,509;Q1;1331
2;19434;Nature Communications;journal;"20411723";4,887;Q1;473
3;20315;Journal of Machine Learning Research;journal;"15324435";2,796;Q1;254
4;12345;Obscure Letters;journal;"00000000";0,1;-;3
5;99999;;journal;"";1;Q2;1
`

func sampleTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	entries, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return NewTable(entries, opts...)
}

func TestParseCSV(t *testing.T) {
	entries, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, entries, 4, "row with empty title is skipped")

	assert.Equal(t, "Nature", entries[0].Title)
	assert.InDelta(t, 18.509, entries[0].Metrics.PrestigeScore, 1e-9)
	assert.Equal(t, 1331, entries[0].Metrics.RankIndex)
	assert.Equal(t, "Q1", entries[0].Metrics.Quartile)

	assert.Equal(t, "", entries[3].Metrics.Quartile, "dash quartile reads as unknown")
}

func TestParseCSVErrors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseCSV(strings.NewReader("Name;SJR\nfoo;1\n"))
	assert.ErrorContains(t, err, "Title")
}

func TestMetricsExactMatch(t *testing.T) {
	tbl := sampleTable(t)

	m, ok := tbl.Metrics("nature")
	require.True(t, ok)
	assert.Equal(t, 1331, m.RankIndex)

	m, ok = tbl.Metrics("  NATURE COMMUNICATIONS ")
	require.True(t, ok)
	assert.Equal(t, 473, m.RankIndex)
}

func TestMetricsUnescapesHTML(t *testing.T) {
	entries := []Entry{{Title: "Science & Engineering Ethics", Metrics: types.VenueMetrics{RankIndex: 60}}}
	tbl := NewTable(entries)

	m, ok := tbl.Metrics("Science &amp; Engineering Ethics")
	require.True(t, ok)
	assert.Equal(t, 60, m.RankIndex)
}

func TestMetricsFuzzyMatch(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name     string
		venue    string
		wantOK   bool
		wantRank int
	}{
		{"punctuation only", "Journal of Machine Learning Research.", true, 254},
		{"reordered words", "Research, Journal of Machine Learning", true, 254},
		{"one typo", "Nature Communicatons", true, 473},
		{"below cutoff", "Natur", false, 0},
		{"unrelated", "Proceedings of Something Else", false, 0},
		{"empty", "", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tbl.Metrics(tt.venue)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRank, m.RankIndex)
		})
	}
}

func TestMetricsMemoizesMisses(t *testing.T) {
	tbl := sampleTable(t)

	_, ok := tbl.Metrics("Natur")
	assert.False(t, ok)
	cached, hit := tbl.memo.Get("Natur")
	require.True(t, hit)
	assert.Equal(t, -1, cached)

	_, ok = tbl.Metrics("Natur")
	assert.False(t, ok)
}

func TestWithCutoff(t *testing.T) {
	tbl := sampleTable(t, WithCutoff(80))
	m, ok := tbl.Metrics("Natur")
	require.True(t, ok)
	assert.Equal(t, 1331, m.RankIndex)
}

func TestNilAndEmptyTable(t *testing.T) {
	var tbl *Table
	_, ok := tbl.Metrics("Nature")
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())

	_, ok = NewTable(nil).Metrics("Nature")
	assert.False(t, ok)
}

func TestTokenSortSimilarity(t *testing.T) {
	tokenSortRatio := func(a, b string) float64 { return ratio(tokenSort(a), tokenSort(b)) }
	assert.Equal(t, 100.0, tokenSortRatio("Learning Machine", "machine learning"))
	assert.Equal(t, 100.0, tokenSortRatio("", ""))
	assert.Less(t, tokenSortRatio("nature", "cell"), 50.0)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scimago.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
