// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve merges paper records from independent sources into a
// canonical paper mapping. The resolver is the only writer of identity
// fields (Key, DOI, Sources, source identifiers) and owns re-keying.
package resolve

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/pkg/types"
)

// Outcome reports what Merge did with a record.
type Outcome int

const (
	// Dropped means the record had neither a usable DOI nor a usable title.
	Dropped Outcome = iota
	// Inserted means the record became a new entry.
	Inserted
	// Merged means the record was folded into an existing entry.
	Merged
	// Rekeyed means the record was folded into a title-keyed entry, which
	// then moved to the record's DOI.
	Rekeyed
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Merged:
		return "merged"
	case Rekeyed:
		return "rekeyed"
	default:
		return "dropped"
	}
}

// Conflict records two DOIs seen for the same normalized title. The entry
// keeps KeptDOI; IgnoredDOI came from a later record.
type Conflict struct {
	TitleKey   string
	KeptDOI    string
	IgnoredDOI string
	Source     string
}

// TitleSearcher finds a DOI for a paper title. Implementations return ""
// with a nil error when nothing matched.
type TitleSearcher interface {
	DOIForTitle(ctx context.Context, title string) (string, error)
}

// Resolver folds records into a canonical mapping. A Resolver is not safe
// for concurrent use.
type Resolver struct {
	log         zerolog.Logger
	callTimeout time.Duration
	conflicts   []Conflict
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithCallTimeout bounds each title-search call during DOI rescue.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.callTimeout = d }
}

// New returns a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		log:         zerolog.Nop(),
		callTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Conflicts returns the soft conflicts observed so far.
func (r *Resolver) Conflicts() []Conflict {
	return append([]Conflict(nil), r.conflicts...)
}

// Merge folds rec into m. A DOI match folds into the existing entry; a
// normalized-title match folds in and moves a title-keyed entry to the
// record's DOI; otherwise a copy of rec is inserted under its canonical key.
// rec itself is never stored.
func (r *Resolver) Merge(m types.PaperMap, rec *types.Paper) Outcome {
	doi := identity.NormalizeDOI(rec.DOI)

	if doi != "" {
		if existing, ok := m[doi]; ok {
			absorb(existing, rec)
			return Merged
		}
	}

	titleKey := identity.TitleKey(rec.Title)
	if titleKey != "" {
		if key, existing := findByTitle(m, titleKey); existing != nil {
			absorb(existing, rec)
			switch {
			case doi == "":
				return Merged
			case existing.DOI == "":
				rekey(m, key, doi)
				r.log.Debug().Str("from", key).Str("to", doi).Msg("re-keyed title entry to DOI")
				return Rekeyed
			case existing.DOI != doi:
				c := Conflict{
					TitleKey:   titleKey,
					KeptDOI:    existing.DOI,
					IgnoredDOI: doi,
					Source:     firstSource(rec),
				}
				if r.seenConflict(c) {
					return Merged
				}
				r.conflicts = append(r.conflicts, c)
				r.log.Warn().
					Str("title", rec.Title).
					Str("kept_doi", c.KeptDOI).
					Str("ignored_doi", c.IgnoredDOI).
					Msg("same title carries different DOIs, keeping first")
			}
			return Merged
		}
	}

	key := identity.CanonicalKey(doi, rec.Title)
	if key == "" {
		r.log.Debug().Strs("sources", rec.Sources).Msg("dropping record without DOI or title")
		return Dropped
	}

	p := rec.Clone()
	p.DOI = doi
	p.Key = key
	m[key] = p
	return Inserted
}

// MergeAll merges records in order and returns how many were dropped.
func (r *Resolver) MergeAll(m types.PaperMap, recs []*types.Paper) int {
	dropped := 0
	for _, rec := range recs {
		if r.Merge(m, rec) == Dropped {
			dropped++
		}
	}
	return dropped
}

// RescueDOIs looks up a DOI for every entry that lacks one and re-keys the
// entries it finds. When the found DOI is already a key, the title entry is
// folded into it. Failed lookups are logged and skipped. Running it again
// over the result changes nothing unless the searcher's answers change.
func (r *Resolver) RescueDOIs(ctx context.Context, m types.PaperMap, searcher TitleSearcher) int {
	if searcher == nil {
		return 0
	}

	var pending []string
	for _, key := range m.Keys() {
		p := m[key]
		if p.DOI == "" && p.Title != "" {
			pending = append(pending, key)
		}
	}
	if len(pending) == 0 {
		return 0
	}
	r.log.Info().Int("papers", len(pending)).Msg("attempting DOI rescue")

	rescued := 0
	for _, key := range pending {
		p, ok := m[key]
		if !ok || p.DOI != "" {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		found, err := searcher.DOIForTitle(callCtx, p.Title)
		cancel()
		if err != nil {
			r.log.Debug().Err(err).Str("title", p.Title).Msg("DOI rescue lookup failed")
			continue
		}
		doi := identity.NormalizeDOI(found)
		if doi == "" {
			continue
		}

		if existing, ok := m[doi]; ok && existing != p {
			absorb(existing, p)
			delete(m, key)
		} else {
			rekey(m, key, doi)
		}
		rescued++
	}

	r.log.Info().Int("rescued", rescued).Msg("DOI rescue done")
	return rescued
}

// findByTitle returns the entry whose normalized title equals titleKey.
// When several match, the smallest key wins so the choice is stable.
func findByTitle(m types.PaperMap, titleKey string) (string, *types.Paper) {
	var bestKey string
	var best *types.Paper
	for k, p := range m {
		if identity.TitleKey(p.Title) != titleKey {
			continue
		}
		if best == nil || k < bestKey {
			bestKey, best = k, p
		}
	}
	return bestKey, best
}

// rekey moves the entry at oldKey to doi as a single step.
func rekey(m types.PaperMap, oldKey, doi string) {
	p := m[oldKey]
	delete(m, oldKey)
	p.DOI = doi
	p.Key = doi
	m[doi] = p
}

// absorb folds src into dst: sources union, counts take the maximum, the
// first PDF link and identifiers win, and empty metadata is filled.
func absorb(dst, src *types.Paper) {
	for _, s := range src.Sources {
		dst.AddSource(s)
	}
	if dst.PDFLink == "" {
		dst.PDFLink = src.PDFLink
	}
	dst.CitationCount = max(dst.CitationCount, src.CitationCount)
	dst.InfluentialCitationCount = max(dst.InfluentialCitationCount, src.InfluentialCitationCount)

	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if dst.Authors == "" {
		dst.Authors = src.Authors
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.OpenAlexID == "" {
		dst.OpenAlexID = src.OpenAlexID
	}
	if dst.SemanticScholarID == "" {
		dst.SemanticScholarID = src.SemanticScholarID
	}
	if dst.ArxivID == "" {
		dst.ArxivID = src.ArxivID
	}
}

// seenConflict reports whether the same DOI pair was already recorded for
// the title, whichever source reported it.
func (r *Resolver) seenConflict(c Conflict) bool {
	return slices.ContainsFunc(r.conflicts, func(o Conflict) bool {
		return o.TitleKey == c.TitleKey && o.KeptDOI == c.KeptDOI && o.IgnoredDOI == c.IgnoredDOI
	})
}

func firstSource(p *types.Paper) string {
	if len(p.Sources) == 0 {
		return ""
	}
	return p.Sources[0]
}
