// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank computes a bounded composite relevance score per paper from
// citation velocity, venue prestige, recency, cross-source consensus, and
// first-author authority. The engine is the only writer of score fields.
package rank

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/paperrank/pkg/types"
)

const (
	defaultConcurrency   = 5
	defaultAuthorTimeout = 10 * time.Second
	defaultCacheSize     = 4096
)

// VenueLookup returns prestige metrics for a venue name.
type VenueLookup interface {
	Metrics(venue string) (types.VenueMetrics, bool)
}

// AuthorityLookup returns an impact index (e.g. h-index) for an author name.
type AuthorityLookup interface {
	Authority(ctx context.Context, author string) (int, error)
}

// Engine scores papers. Author authority comes from the map Prefetch
// returns; scoring never calls out.
type Engine struct {
	venues      VenueLookup
	authority   AuthorityLookup
	cache       *lru.Cache[string, int]
	concurrency int
	timeout     time.Duration
	currentYear int
	log         zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithVenues sets the venue lookup.
func WithVenues(v VenueLookup) Option {
	return func(e *Engine) { e.venues = v }
}

// WithAuthority sets the author authority lookup.
func WithAuthority(a AuthorityLookup) Option {
	return func(e *Engine) { e.authority = a }
}

// WithConcurrency bounds parallel author lookups.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithAuthorTimeout bounds each author lookup.
func WithAuthorTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithCacheSize bounds the author authority cache.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cache, _ = lru.New[string, int](n)
		}
	}
}

// WithCurrentYear fixes the year used for age computations.
func WithCurrentYear(year int) Option {
	return func(e *Engine) { e.currentYear = year }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine returns an Engine. Without a venue lookup every venue scores 0;
// without an authority lookup every author scores 0.
func NewEngine(opts ...Option) *Engine {
	cache, _ := lru.New[string, int](defaultCacheSize)
	e := &Engine{
		cache:       cache,
		concurrency: defaultConcurrency,
		timeout:     defaultAuthorTimeout,
		currentYear: time.Now().Year(),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CurrentYear returns the reference year for age computations.
func (e *Engine) CurrentYear() int { return e.currentYear }

// Authorities maps first authors to their impact index for one paper set.
// An author missing from the map scores 0.
type Authorities map[string]int

// Prefetch resolves authority for every distinct first author in papers and
// returns the complete result for this set: cache hits plus fresh lookups,
// using at most the configured number of concurrent lookups. A failed
// lookup yields 0 for that author only. The engine's LRU cache memoizes
// lookups across calls; scoring reads the returned map.
func (e *Engine) Prefetch(ctx context.Context, papers []*types.Paper) Authorities {
	snapshot := Authorities{}
	if e.authority == nil {
		return snapshot
	}

	var pending []string
	for _, p := range papers {
		a := p.FirstAuthor()
		if a == "" {
			continue
		}
		if _, seen := snapshot[a]; seen {
			continue
		}
		if h, ok := e.cache.Get(a); ok {
			snapshot[a] = h
			continue
		}
		snapshot[a] = 0
		pending = append(pending, a)
	}
	if len(pending) == 0 {
		return snapshot
	}
	e.log.Info().Int("authors", len(pending)).Msg("fetching author metrics")

	var mu sync.Mutex
	results := make(map[string]int, len(pending))
	failed := 0

	wp := pool.New().WithMaxGoroutines(e.concurrency)
	for _, author := range pending {
		author := author
		wp.Go(func() {
			callCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			h, err := e.authority.Authority(callCtx, author)
			if err != nil {
				e.log.Warn().Err(err).Str("author", author).Msg("author lookup failed")
				h = 0
			}
			mu.Lock()
			results[author] = max(0, h)
			if err != nil {
				failed++
			}
			mu.Unlock()
		})
	}
	wp.Wait()

	for author, h := range results {
		snapshot[author] = h
		e.cache.Add(author, h)
	}
	e.log.Info().Int("authors", len(results)).Int("failed", failed).Msg("author metrics done")
	return snapshot
}

// Breakdown computes the sub-scores of p under prof, taking author
// authority from auth. It does not modify p.
func (e *Engine) Breakdown(p *types.Paper, prof Profile, auth Authorities) Components {
	return Components{
		Venue:           VenueScore(e.venueMetrics(p)),
		NormCitations:   NormCitationScore(p.CitationCount, p.Year, e.currentYear),
		Recency:         RecencyScore(p.Year, e.currentYear, prof.RecencyDecay),
		Consensus:       ConsensusScore(len(p.Sources)),
		AuthorAuthority: AuthorityScore(auth[p.FirstAuthor()]),
		Boost:           EvidenceBoost(p.Title, prof.EvidenceBoost),
	}
}

// Score returns the composite score of p in [0, 100].
func (e *Engine) Score(p *types.Paper, prof Profile, auth Authorities) float64 {
	return e.Breakdown(p, prof, auth).Composite(prof.Weights)
}

// Apply prefetches author authority and then scores each paper in order,
// writing the composite score and the transparency fields.
func (e *Engine) Apply(ctx context.Context, papers []*types.Paper, prof Profile) {
	auth := e.Prefetch(ctx, papers)
	for _, p := range papers {
		if p.VenueMetrics == nil {
			if m, ok := e.lookupVenue(p.Venue); ok {
				p.VenueMetrics = &m
			}
		}
		p.CitationsPerYear = CitationsPerYear(p.CitationCount, p.Year, e.currentYear)
		p.AuthorAuthority = auth[p.FirstAuthor()]
		p.CompositeScore = e.Score(p, prof, auth)
	}
}

// ApplyMap scores every paper in m.
func (e *Engine) ApplyMap(ctx context.Context, m types.PaperMap, prof Profile) {
	e.Apply(ctx, m.Papers(), prof)
}

func (e *Engine) venueMetrics(p *types.Paper) *types.VenueMetrics {
	if p.VenueMetrics != nil {
		return p.VenueMetrics
	}
	if m, ok := e.lookupVenue(p.Venue); ok {
		return &m
	}
	return nil
}

func (e *Engine) lookupVenue(venue string) (types.VenueMetrics, bool) {
	if e.venues == nil || venue == "" {
		return types.VenueMetrics{}, false
	}
	return e.venues.Metrics(venue)
}
