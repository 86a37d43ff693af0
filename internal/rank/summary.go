// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Summary describes the distribution of composite scores in a result set.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// Summarize computes score statistics over papers. An empty input yields a
// zero Summary.
func Summarize(papers []*types.Paper) Summary {
	if len(papers) == 0 {
		return Summary{}
	}
	scores := make([]float64, len(papers))
	for i, p := range papers {
		scores[i] = p.CompositeScore
	}
	sort.Float64s(scores)

	s := Summary{
		Count:  len(scores),
		Min:    floats.Min(scores),
		Max:    floats.Max(scores),
		Mean:   stat.Mean(scores, nil),
		Median: stat.Quantile(0.5, stat.Empirical, scores, nil),
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}
