// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"strings"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Reference ceilings for normalizing raw signals to 0-100.
const (
	prestigeCeiling  = 5.0
	rankCeiling      = 200.0
	authorityCeiling = 50.0
	prestigeShare    = 0.7
	rankShare        = 0.3
	citationScale    = 25.0
)

// Components holds the five sub-scores of a paper, each in [0, 100], and
// the evidence boost applied on top.
type Components struct {
	Venue           float64 `json:"venue"`
	NormCitations   float64 `json:"norm_citations"`
	Recency         float64 `json:"recency"`
	Consensus       float64 `json:"consensus"`
	AuthorAuthority float64 `json:"author_authority"`
	Boost           float64 `json:"boost"`
}

// Composite combines the components with the profile weights and clamps
// the result to [0, 100].
func (c Components) Composite(w Weights) float64 {
	raw := c.NormCitations*w.NormCitations +
		c.Venue*w.Venue +
		c.Recency*w.Recency +
		c.Consensus*w.Consensus +
		c.AuthorAuthority*w.AuthorAuthority +
		c.Boost
	return clamp(raw)
}

// VenueScore blends the prestige proxy and the rank proxy 70/30. A nil
// metrics record scores 0.
func VenueScore(m *types.VenueMetrics) float64 {
	if m == nil {
		return 0
	}
	prestige := math.Min(100, m.PrestigeScore/prestigeCeiling*100)
	rank := math.Min(100, float64(m.RankIndex)/rankCeiling*100)
	return clamp(prestige*prestigeShare + rank*rankShare)
}

// CitationsPerYear divides citations by the paper's age in years. Ages below
// one year, including future publication years, count as one year. Unknown
// years yield 0.
func CitationsPerYear(citations, year, currentYear int) float64 {
	if year <= 0 || citations <= 0 {
		return 0
	}
	age := max(1, currentYear-year)
	return float64(citations) / float64(age)
}

// NormCitationScore log-compresses citations per year: 25*ln(cpy+1),
// capped at 100.
func NormCitationScore(citations, year, currentYear int) float64 {
	cpy := CitationsPerYear(citations, year, currentYear)
	if cpy <= 0 {
		return 0
	}
	return math.Min(100, citationScale*math.Log(cpy+1))
}

// RecencyScore applies the profile decay to the paper's age. Unknown years
// score 0; an unrecognized decay scores a neutral 50.
func RecencyScore(year, currentYear int, decay Decay) float64 {
	if year <= 0 {
		return 0
	}
	age := float64(max(0, currentYear-year))
	switch decay {
	case DecayNone:
		return 100
	case DecaySlow:
		return math.Max(0, 100-age*5)
	case DecayMedium:
		return math.Max(0, 100-age*10)
	case DecayFast:
		return 100 * math.Exp(-0.5*age)
	default:
		return 50
	}
}

// ConsensusScore rewards independent discovery: 0 for one source or none,
// 50 for two, 100 for three or more.
func ConsensusScore(sources int) float64 {
	switch {
	case sources >= 3:
		return 100
	case sources == 2:
		return 50
	default:
		return 0
	}
}

// AuthorityScore normalizes a first-author impact index against a ceiling of 50.
func AuthorityScore(hIndex int) float64 {
	if hIndex <= 0 {
		return 0
	}
	return math.Min(100, float64(hIndex)/authorityCeiling*100)
}

// EvidenceBoost returns the boost of the first rule whose term occurs in
// title, or 0.
func EvidenceBoost(title string, rules []BoostRule) float64 {
	if len(rules) == 0 || title == "" {
		return 0
	}
	lower := strings.ToLower(title)
	for _, r := range rules {
		if r.Term != "" && strings.Contains(lower, strings.ToLower(r.Term)) {
			return r.Boost
		}
	}
	return 0
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
