// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires sources, entity resolution, ranking and citation
// expansion into the end-to-end search flow:
//
//	sources -> merge -> DOI rescue -> rank -> expand top N -> re-rank
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/internal/graph"
	"github.com/pdiddy/paperrank/internal/observability"
	"github.com/pdiddy/paperrank/internal/rank"
	"github.com/pdiddy/paperrank/internal/resolve"
	"github.com/pdiddy/paperrank/internal/sources"
	"github.com/pdiddy/paperrank/pkg/types"
)

// Pipeline runs searches. Build one with New or FromConfig.
type Pipeline struct {
	sources  []sources.Source
	rescuer  resolve.TitleSearcher
	engine   *rank.Engine
	expander *graph.Expander
	profile  rank.Profile
	topN     int
	log      zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSources sets the search adapters.
func WithSources(srcs ...sources.Source) Option {
	return func(p *Pipeline) { p.sources = srcs }
}

// WithRescuer enables DOI rescue for records that arrive without one.
func WithRescuer(s resolve.TitleSearcher) Option {
	return func(p *Pipeline) { p.rescuer = s }
}

// WithExpander enables citation expansion of the top n papers.
func WithExpander(e *graph.Expander, n int) Option {
	return func(p *Pipeline) {
		p.expander = e
		p.topN = n
	}
}

// WithProfile sets the weight profile.
func WithProfile(prof rank.Profile) Option {
	return func(p *Pipeline) { p.profile = prof }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New returns a Pipeline scoring with engine.
func New(engine *rank.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:  engine,
		profile: rank.DefaultProfiles()[rank.DefaultProfile],
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the active weight profile.
func (p *Pipeline) Profile() rank.Profile { return p.profile }

// Result is the outcome of a run.
type Result struct {
	Query   string `json:"query,omitempty"`
	Profile string `json:"profile"`

	// Papers is the final ranked list: the expanded network when expansion
	// grew it, otherwise the merged search results.
	Papers []*types.Paper `json:"papers"`

	// Merged holds the deduplicated search results.
	Merged types.PaperMap `json:"-"`

	// Network holds the expanded citation network, nil when expansion did
	// not run.
	Network types.PaperMap `json:"-"`

	// Expanded reports whether expansion added papers beyond the seeds.
	Expanded bool `json:"expanded"`

	Stats     sources.Stats      `json:"stats"`
	Rescued   int                `json:"rescued"`
	Conflicts []resolve.Conflict `json:"conflicts,omitempty"`
	Summary   rank.Summary       `json:"summary"`
}

// Run searches every source for query, merges and ranks the results, and
// expands the top papers into their citation network when configured.
func (p *Pipeline) Run(ctx context.Context, query string, limit int) (Result, error) {
	resolver := resolve.New(
		resolve.WithLogger(observability.WithComponent(p.log, "resolve")),
	)

	merged, stats, err := sources.Gather(ctx, p.sources, query, limit, resolver, p.log)
	if err != nil {
		return Result{}, err
	}
	if len(merged) == 0 {
		return Result{}, fmt.Errorf("no results for %q from %d sources", query, len(p.sources))
	}
	p.log.Info().Int("records", stats.Records).Int("unique", stats.Unique).Msg("merged search results")

	res := Result{
		Query:   query,
		Profile: p.profile.Name,
		Merged:  merged,
		Stats:   stats,
	}
	res.Rescued = resolver.RescueDOIs(ctx, merged, p.rescuer)
	res.Conflicts = resolver.Conflicts()

	p.engine.ApplyMap(ctx, merged, p.profile)
	res.Papers = merged.Ranked()

	if p.expander != nil && p.topN > 0 {
		seeds := res.Papers[:min(p.topN, len(res.Papers))]
		network := p.expand(ctx, seeds)
		res.Network = network
		if graph.Grew(network) {
			res.Expanded = true
			res.Papers = network.Ranked()
		} else {
			p.log.Info().Msg("citation network did not grow, keeping search results")
		}
	}

	res.Summary = rank.Summarize(res.Papers)
	return res, nil
}

// Expand builds and ranks the citation network of seeds directly.
func (p *Pipeline) Expand(ctx context.Context, seeds []*types.Paper) (Result, error) {
	if p.expander == nil {
		return Result{}, fmt.Errorf("citation expansion is not configured")
	}
	network := p.expand(ctx, seeds)
	res := Result{
		Profile:  p.profile.Name,
		Network:  network,
		Expanded: graph.Grew(network),
		Papers:   network.Ranked(),
	}
	res.Summary = rank.Summarize(res.Papers)
	return res, nil
}

func (p *Pipeline) expand(ctx context.Context, seeds []*types.Paper) types.PaperMap {
	network := p.expander.Expand(ctx, seeds)
	p.engine.ApplyMap(ctx, network, p.profile)
	return network
}
