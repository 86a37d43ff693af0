// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperrank/pkg/types"
)

type fakeVenues map[string]types.VenueMetrics

func (f fakeVenues) Metrics(venue string) (types.VenueMetrics, bool) {
	m, ok := f[venue]
	return m, ok
}

type fakeAuthority struct {
	mu       sync.Mutex
	h        map[string]int
	fail     map[string]bool
	calls    map[string]int
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeAuthority) Authority(ctx context.Context, author string) (int, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[author]++
	if f.fail[author] {
		return 0, errors.New("upstream unavailable")
	}
	return f.h[author], nil
}

func scenarioPaper() *types.Paper {
	p := &types.Paper{
		Key:           "10.1/a",
		DOI:           "10.1/a",
		Title:         "A Paper",
		Year:          2020,
		Venue:         "Nature",
		CitationCount: 100,
		Authors:       "Ada Lovelace, Charles Babbage",
	}
	p.AddSource("openalex")
	return p
}

func TestScenarioBreakdown(t *testing.T) {
	e := NewEngine(
		WithCurrentYear(2024),
		WithVenues(fakeVenues{"Nature": {PrestigeScore: 50, RankIndex: 10, Quartile: "Q1"}}),
	)
	c := e.Breakdown(scenarioPaper(), DefaultProfiles()["general"], nil)

	assert.InDelta(t, 50.5, c.Venue, 1e-9)
	assert.InDelta(t, 81.45, c.NormCitations, 0.01)
	assert.InDelta(t, 60, c.Recency, 1e-9)
	assert.Zero(t, c.Consensus)
	assert.Zero(t, c.AuthorAuthority)
}

func TestApplyWritesScoreFields(t *testing.T) {
	auth := &fakeAuthority{h: map[string]int{"Ada Lovelace": 25}}
	e := NewEngine(
		WithCurrentYear(2024),
		WithVenues(fakeVenues{"Nature": {PrestigeScore: 50, RankIndex: 10, Quartile: "Q1"}}),
		WithAuthority(auth),
	)
	p := scenarioPaper()
	prof := DefaultProfiles()["general"]

	e.Apply(context.Background(), []*types.Paper{p}, prof)

	require.NotNil(t, p.VenueMetrics)
	assert.Equal(t, "Q1", p.VenueMetrics.Quartile)
	assert.InDelta(t, 25.0, p.CitationsPerYear, 1e-9)
	assert.Equal(t, 25, p.AuthorAuthority)

	want := Components{
		Venue:           50.5,
		NormCitations:   NormCitationScore(100, 2020, 2024),
		Recency:         60,
		AuthorAuthority: 50,
	}.Composite(prof.Weights)
	assert.InDelta(t, want, p.CompositeScore, 1e-9)
}

func TestScoreKeepsExistingVenueMetrics(t *testing.T) {
	e := NewEngine(WithCurrentYear(2024), WithVenues(fakeVenues{"Nature": {PrestigeScore: 50, RankIndex: 10}}))
	p := scenarioPaper()
	p.VenueMetrics = &types.VenueMetrics{PrestigeScore: 0.5, RankIndex: 20}

	c := e.Breakdown(p, DefaultProfiles()["general"], nil)
	assert.InDelta(t, 10*0.7+10*0.3, c.Venue, 1e-9)
}

func TestScoreIsPure(t *testing.T) {
	e := NewEngine(WithCurrentYear(2024))
	p := scenarioPaper()
	prof := DefaultProfiles()["cs"]

	auth := Authorities{"Ada Lovelace": 40}
	first := e.Score(p, prof, auth)
	second := e.Score(p, prof, auth)
	assert.Equal(t, first, second)
	assert.Zero(t, p.CompositeScore)
	assert.Nil(t, p.VenueMetrics)
}

func TestScoreBoundsAcrossProfiles(t *testing.T) {
	papers := []*types.Paper{
		{},
		{Title: "Meta-analysis of everything", Year: 2024, CitationCount: 1 << 30, Venue: "Nature", Authors: "Top Author"},
		{Year: 1800, CitationCount: 5, Sources: []string{"a", "b", "c", "d"}},
		{Year: 3000, CitationCount: -4},
	}
	e := NewEngine(
		WithCurrentYear(2024),
		WithVenues(fakeVenues{"Nature": {PrestigeScore: 1e9, RankIndex: 1e9}}),
		WithAuthority(&fakeAuthority{h: map[string]int{"Top Author": 1e6}}),
	)
	auth := e.Prefetch(context.Background(), papers)

	profiles := DefaultProfiles()
	profiles["extreme"] = Profile{
		Name:          "extreme",
		Weights:       Weights{NormCitations: 5, Venue: 5, Recency: 5, Consensus: 5, AuthorAuthority: 5},
		RecencyDecay:  DecayNone,
		EvidenceBoost: []BoostRule{{Term: "meta", Boost: 500}},
	}
	for _, prof := range profiles {
		for i, p := range papers {
			s := e.Score(p, prof, auth)
			assert.GreaterOrEqual(t, s, 0.0, "profile %s paper %d", prof.Name, i)
			assert.LessOrEqual(t, s, 100.0, "profile %s paper %d", prof.Name, i)
		}
	}
}

func TestPrefetchIsolatesFailures(t *testing.T) {
	auth := &fakeAuthority{
		h:    map[string]int{"Good Author": 30},
		fail: map[string]bool{"Bad Author": true},
	}
	e := NewEngine(WithAuthority(auth))
	papers := []*types.Paper{
		{Authors: "Good Author, X"},
		{Authors: "Bad Author"},
	}

	got := e.Prefetch(context.Background(), papers)

	assert.Equal(t, Authorities{"Good Author": 30, "Bad Author": 0}, got)
}

func TestPrefetchDeduplicatesAndCaches(t *testing.T) {
	auth := &fakeAuthority{h: map[string]int{"Ada Lovelace": 12}}
	e := NewEngine(WithAuthority(auth))
	papers := []*types.Paper{
		{Authors: "Ada Lovelace"},
		{Authors: "Ada Lovelace, Someone Else"},
		{Authors: ""},
	}

	e.Prefetch(context.Background(), papers)
	again := e.Prefetch(context.Background(), papers)

	assert.Equal(t, map[string]int{"Ada Lovelace": 1}, auth.calls)
	assert.Equal(t, Authorities{"Ada Lovelace": 12}, again)
}

func TestApplyKeepsAuthorityBeyondCacheSize(t *testing.T) {
	auth := &fakeAuthority{h: map[string]int{}}
	var papers []*types.Paper
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("Author %d", i)
		auth.h[name] = 50
		papers = append(papers, &types.Paper{Title: fmt.Sprintf("Paper %d", i), Authors: name})
	}
	e := NewEngine(WithAuthority(auth), WithCacheSize(4), WithCurrentYear(2024))

	e.Apply(context.Background(), papers, DefaultProfiles()["general"])

	for _, p := range papers {
		assert.Equal(t, 50, p.AuthorAuthority, p.Authors)
	}
	assert.Len(t, auth.calls, 6)
}

func TestPrefetchBoundsConcurrency(t *testing.T) {
	auth := &fakeAuthority{h: map[string]int{}, delay: 20 * time.Millisecond}
	e := NewEngine(WithAuthority(auth), WithConcurrency(3))

	var papers []*types.Paper
	for i := 0; i < 12; i++ {
		papers = append(papers, &types.Paper{Authors: fmt.Sprintf("Author %d", i)})
	}
	e.Prefetch(context.Background(), papers)

	assert.LessOrEqual(t, auth.peak.Load(), int32(3))
	assert.Len(t, auth.calls, 12)
}

func TestPrefetchWithoutLookup(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, e.Prefetch(context.Background(), []*types.Paper{{Authors: "A"}}))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	one := Summarize([]*types.Paper{{CompositeScore: 42}})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 42.0, one.Median)
	assert.Zero(t, one.StdDev)

	s := Summarize([]*types.Paper{{CompositeScore: 30}, {CompositeScore: 10}, {CompositeScore: 20}})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)
	assert.InDelta(t, 20.0, s.Mean, 1e-9)
	assert.InDelta(t, 20.0, s.Median, 1e-9)
	assert.InDelta(t, 10.0, s.StdDev, 1e-9)
}
