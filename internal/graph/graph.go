// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph expands a seed set of papers into its one-hop citation
// neighborhood using a bibliographic graph API, and computes co-citation
// weights and a normalized centrality for every paper in the result.
//
// Expansion is a single bounded pass. Batches are issued one after another
// because later batches depend on identifiers resolved by earlier ones. A
// failed batch is logged and treated as empty; nothing is retried here.
package graph

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/pkg/types"
)

const (
	// MaxBatchSize is the largest number of identifiers sent in one call.
	MaxBatchSize = 50

	// citingBatchSize bounds the seed identifiers per incoming-citation query.
	citingBatchSize = 25

	defaultCallTimeout = 30 * time.Second
)

// Client is the bibliographic graph API consumed by the Expander. Each
// method issues a single request for at most MaxBatchSize identifiers.
type Client interface {
	// WorksByDOIs returns metadata, including referenced work identifiers,
	// for the works with the given normalized DOIs.
	WorksByDOIs(ctx context.Context, dois []string) ([]types.Work, error)

	// WorksByIDs returns metadata for the works with the given graph identifiers.
	WorksByIDs(ctx context.Context, ids []string) ([]types.Work, error)

	// CitingWorks returns the works that reference any of the given graph
	// identifiers. Returned works carry at least ID, DOI and ReferencedIDs.
	CitingWorks(ctx context.Context, ids []string) ([]types.Work, error)
}

// TitleSearcher resolves a DOI from a title. An empty DOI means no match.
type TitleSearcher interface {
	DOIForTitle(ctx context.Context, title string) (string, error)
}

// VenueLookup returns prestige metrics for a venue name.
type VenueLookup interface {
	Metrics(venue string) (types.VenueMetrics, bool)
}

// Expander builds citation neighborhoods.
type Expander struct {
	client      Client
	titles      TitleSearcher
	venues      VenueLookup
	batchSize   int
	callTimeout time.Duration
	log         zerolog.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithBatchSize sets the identifiers per call, capped at MaxBatchSize.
func WithBatchSize(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.batchSize = min(n, MaxBatchSize)
		}
	}
}

// WithCallTimeout bounds each batched call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Expander) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithTitleSearcher enables DOI resolution for seeds that lack one.
func WithTitleSearcher(s TitleSearcher) Option {
	return func(e *Expander) { e.titles = s }
}

// WithVenues attaches venue metrics to discovered papers.
func WithVenues(v VenueLookup) Option {
	return func(e *Expander) { e.venues = v }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Expander) { e.log = log }
}

// New returns an Expander backed by client.
func New(client Client, opts ...Option) *Expander {
	e := &Expander{
		client:      client,
		batchSize:   MaxBatchSize,
		callTimeout: defaultCallTimeout,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Neighborhood is the raw one-hop graph around a seed set.
type Neighborhood struct {
	// References maps a referenced graph identifier to the number of
	// distinct seeds referencing it.
	References map[string]int

	// SeedReferences maps a seed key to the graph identifiers it references.
	SeedReferences map[string][]string

	// SeedIDs maps a seed key to its graph identifier.
	SeedIDs map[string]string

	// Citing maps the normalized DOI of each citing work to the seed keys
	// it cites.
	Citing map[string][]string
}

// Expand returns a new mapping holding the seeds (cloned, marked as seeds,
// keyed by DOI) and every paper discovered one hop away. Seeds without a
// resolvable DOI are left out. With no resolvable seed it returns an empty
// mapping. The input papers are not modified.
func (e *Expander) Expand(ctx context.Context, seeds []*types.Paper) types.PaperMap {
	network := e.seedNetwork(ctx, seeds)
	if len(network) == 0 {
		e.log.Info().Msg("no seeds with a DOI, skipping expansion")
		return network
	}
	e.log.Info().Int("seeds", len(network)).Msg("expanding citation network")

	nb := e.Neighborhood(ctx, network)
	e.log.Info().
		Int("references", len(nb.References)).
		Int("citations", len(nb.Citing)).
		Msg("fetched neighborhood")

	idToKey := e.addReferences(ctx, network, nb)
	e.addCitations(ctx, network, nb)
	linkEdges(network, nb, idToKey)
	e.attachVenues(network)
	Centrality(network)

	e.log.Info().Int("papers", len(network)).Msg("network expanded")
	return network
}

// seedNetwork clones every seed with a DOI (resolving missing DOIs by
// title when a searcher is configured) into a fresh mapping.
func (e *Expander) seedNetwork(ctx context.Context, seeds []*types.Paper) types.PaperMap {
	network := types.PaperMap{}
	for _, s := range seeds {
		if s == nil {
			continue
		}
		doi := identity.NormalizeDOI(s.DOI)
		if doi == "" {
			doi = e.resolveSeedDOI(ctx, s.Title)
		}
		if doi == "" {
			e.log.Debug().Str("title", s.Title).Msg("seed has no DOI, left out of expansion")
			continue
		}
		if _, dup := network[doi]; dup {
			continue
		}
		p := s.Clone()
		p.Key = doi
		p.DOI = doi
		p.IsSeed = true
		p.References = nil
		p.Citations = nil
		network[doi] = p
	}
	return network
}

func (e *Expander) resolveSeedDOI(ctx context.Context, title string) string {
	if e.titles == nil || title == "" {
		return ""
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	doi, err := e.titles.DOIForTitle(callCtx, title)
	if err != nil {
		e.log.Warn().Err(err).Str("title", title).Msg("seed DOI lookup failed")
		return ""
	}
	return identity.NormalizeDOI(doi)
}

// Neighborhood queries the graph API for the references of the seeds in
// network and for the works citing them. Seeds unknown to the API
// contribute nothing.
func (e *Expander) Neighborhood(ctx context.Context, network types.PaperMap) Neighborhood {
	nb := Neighborhood{
		References:     map[string]int{},
		SeedReferences: map[string][]string{},
		SeedIDs:        map[string]string{},
		Citing:         map[string][]string{},
	}

	var seedKeys []string
	for _, k := range network.Keys() {
		if network[k].IsSeed {
			seedKeys = append(seedKeys, k)
		}
	}

	for _, batch := range Batches(seedKeys, e.batchSize) {
		works := e.call(ctx, "seed works", batch, e.client.WorksByDOIs)
		for _, w := range works {
			key := identity.NormalizeDOI(w.DOI)
			seed, ok := network[key]
			if !ok || w.ID == "" {
				continue
			}
			if _, seen := nb.SeedIDs[key]; seen {
				continue
			}
			nb.SeedIDs[key] = w.ID
			populate(seed, w)
			refs := unique(w.ReferencedIDs)
			nb.SeedReferences[key] = refs
			for _, id := range refs {
				nb.References[id]++
			}
		}
	}

	idToSeed := make(map[string]string, len(nb.SeedIDs))
	ids := make([]string, 0, len(nb.SeedIDs))
	for key, id := range nb.SeedIDs {
		idToSeed[id] = key
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, batch := range Batches(ids, min(citingBatchSize, e.batchSize)) {
		works := e.call(ctx, "citing works", batch, e.client.CitingWorks)
		for _, w := range works {
			doi := identity.NormalizeDOI(w.DOI)
			if doi == "" {
				continue
			}
			cited := nb.Citing[doi]
			for _, ref := range w.ReferencedIDs {
				if key, ok := idToSeed[ref]; ok {
					cited = append(cited, key)
				}
			}
			nb.Citing[doi] = unique(cited)
		}
	}
	return nb
}

// addReferences resolves referenced identifiers to papers and sets their
// co-citation counts. It returns the graph identifier to key index.
func (e *Expander) addReferences(ctx context.Context, network types.PaperMap, nb Neighborhood) map[string]string {
	ids := make([]string, 0, len(nb.References))
	for id := range nb.References {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	idToKey := map[string]string{}
	for _, batch := range Batches(ids, e.batchSize) {
		works := e.call(ctx, "referenced works", batch, e.client.WorksByIDs)
		for _, w := range works {
			p := getOrCreate(network, w.DOI)
			if p == nil {
				continue
			}
			idToKey[w.ID] = p.Key
			p.CoCitationCount = nb.References[w.ID]
			populate(p, w)
		}
	}
	return idToKey
}

// addCitations resolves citing DOIs to papers. A citing paper without a
// co-citation signal gets 1.
func (e *Expander) addCitations(ctx context.Context, network types.PaperMap, nb Neighborhood) {
	dois := make([]string, 0, len(nb.Citing))
	for doi := range nb.Citing {
		dois = append(dois, doi)
	}
	sort.Strings(dois)

	for _, batch := range Batches(dois, e.batchSize) {
		works := e.call(ctx, "citing metadata", batch, e.client.WorksByDOIs)
		for _, w := range works {
			p := getOrCreate(network, w.DOI)
			if p == nil {
				continue
			}
			if !p.IsSeed && p.CoCitationCount == 0 {
				p.CoCitationCount = 1
			}
			populate(p, w)
		}
	}
}

// call runs one batched request under the per-call timeout. Failures are
// logged and yield no works.
func (e *Expander) call(ctx context.Context, what string, batch []string, fn func(context.Context, []string) ([]types.Work, error)) []types.Work {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	works, err := fn(callCtx, batch)
	if err != nil {
		e.log.Warn().Err(err).Str("batch", what).Int("size", len(batch)).Msg("graph batch failed")
		return nil
	}
	return works
}

func (e *Expander) attachVenues(network types.PaperMap) {
	if e.venues == nil {
		return
	}
	for _, p := range network {
		if IsPlaceholder(p) || p.Venue == "" || p.VenueMetrics != nil {
			continue
		}
		if m, ok := e.venues.Metrics(p.Venue); ok {
			p.VenueMetrics = &m
		}
	}
}

// linkEdges records graph edges once per paper: a seed lists the DOIs it
// references and the DOIs citing it; a discovered paper lists the seeds it
// is cited by or cites.
func linkEdges(network types.PaperMap, nb Neighborhood, idToKey map[string]string) {
	refs := map[string][]string{}
	cites := map[string][]string{}

	for seedKey, ids := range nb.SeedReferences {
		for _, id := range ids {
			key, ok := idToKey[id]
			if !ok {
				continue
			}
			refs[seedKey] = append(refs[seedKey], key)
			cites[key] = append(cites[key], seedKey)
		}
	}
	for citing, seedKeys := range nb.Citing {
		if _, ok := network[citing]; !ok {
			continue
		}
		for _, seedKey := range seedKeys {
			cites[seedKey] = append(cites[seedKey], citing)
			refs[citing] = append(refs[citing], seedKey)
		}
	}

	for key, p := range network {
		if len(p.References) == 0 {
			p.References = unique(refs[key])
		}
		if len(p.Citations) == 0 {
			p.Citations = unique(cites[key])
		}
	}
}

// Centrality sets NetworkCentrality to the co-citation count divided by the
// largest co-citation count in network (at least 1).
func Centrality(network types.PaperMap) {
	maxCo := 1
	for _, p := range network {
		maxCo = max(maxCo, p.CoCitationCount)
	}
	for _, p := range network {
		p.NetworkCentrality = float64(p.CoCitationCount) / float64(maxCo)
	}
}

// IsPlaceholder reports whether p was created from an identifier alone,
// without metadata.
func IsPlaceholder(p *types.Paper) bool {
	return p.Title == ""
}

// Grew reports whether network holds any paper beyond its seeds.
func Grew(network types.PaperMap) bool {
	return len(network) > network.Seeds()
}

// Batches splits ids into consecutive chunks of at most size elements.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		out = append(out, ids[start:min(start+size, len(ids))])
	}
	return out
}

func getOrCreate(network types.PaperMap, rawDOI string) *types.Paper {
	doi := identity.NormalizeDOI(rawDOI)
	if doi == "" {
		return nil
	}
	if p, ok := network[doi]; ok {
		return p
	}
	p := &types.Paper{Key: doi, DOI: doi}
	network[doi] = p
	return p
}

// populate fills empty metadata from w. Citation counts only go up.
func populate(p *types.Paper, w types.Work) {
	if p.Title == "" {
		p.Title = w.Title
	}
	if p.Year == 0 {
		p.Year = w.Year
	}
	if p.Authors == "" {
		p.Authors = w.Authors
	}
	if p.Venue == "" {
		p.Venue = w.Venue
	}
	if p.OpenAlexID == "" {
		p.OpenAlexID = w.ID
	}
	if p.PDFLink == "" {
		p.PDFLink = w.PDFLink
	}
	p.CitationCount = max(p.CitationCount, w.CitationCount)
}

func unique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
