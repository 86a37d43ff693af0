// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources queries bibliographic search APIs and merges their
// records into one canonical paper mapping.
//
// Adapters run concurrently; their records are merged sequentially in
// adapter order so the result does not depend on response timing.
package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/internal/resolve"
	"github.com/pdiddy/paperrank/pkg/types"
)

// Source names used to tag records.
const (
	NameSemanticScholar = "semantic_scholar"
	NameOpenAlex        = "openalex"
	NameArxiv           = "arxiv"
	NameCrossref        = "crossref"
)

// Source searches a single bibliographic API. Every record it returns is
// tagged with its Name.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]*types.Paper, error)
}

// Result is the outcome of one adapter.
type Result struct {
	Source string
	Papers []*types.Paper
	Err    error
}

// Collect runs every source concurrently and returns their results in
// source order. A failing source yields a Result with Err set.
func Collect(ctx context.Context, srcs []Source, query string, limit int) []Result {
	results := make([]Result, len(srcs))

	var wg sync.WaitGroup
	for i, s := range srcs {
		wg.Add(1)
		go func(i int, s Source) {
			defer wg.Done()
			papers, err := s.Search(ctx, query, limit)
			for _, p := range papers {
				p.AddSource(s.Name())
			}
			results[i] = Result{Source: s.Name(), Papers: papers, Err: err}
		}(i, s)
	}
	wg.Wait()
	return results
}

// Stats summarizes a Gather call.
type Stats struct {
	Records int      `json:"records"`
	Unique  int      `json:"unique"`
	Dropped int      `json:"dropped"`
	Failed  []string `json:"failed,omitempty"`
}

// Gather queries srcs and merges their records into a new mapping with r.
// Source failures are logged and reported in Stats; they never abort the
// merge.
func Gather(ctx context.Context, srcs []Source, query string, limit int, r *resolve.Resolver, log zerolog.Logger) (types.PaperMap, Stats, error) {
	if strings.TrimSpace(query) == "" {
		return nil, Stats{}, fmt.Errorf("query is empty")
	}
	if len(srcs) == 0 {
		return nil, Stats{}, fmt.Errorf("no sources configured")
	}

	m := types.PaperMap{}
	var st Stats
	for _, res := range Collect(ctx, srcs, query, limit) {
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("source", res.Source).Msg("source failed")
			st.Failed = append(st.Failed, res.Source)
			continue
		}
		log.Info().Str("source", res.Source).Int("records", len(res.Papers)).Msg("source returned")
		st.Records += len(res.Papers)
		st.Dropped += r.MergeAll(m, res.Papers)
	}
	st.Unique = len(m)
	return m, st, nil
}

// FromConfig builds the enabled adapters. The OpenAlex adapter shares
// oa with the graph expander.
func FromConfig(cfg types.SourcesConfig, oa OpenAlexSearcher) []Source {
	client := newHTTPClient(cfg.HTTPConfig)
	var srcs []Source
	if cfg.EnableSemanticScholar {
		srcs = append(srcs, &SemanticScholar{Client: client, APIKey: cfg.SemanticScholarAPIKey, UserAgent: cfg.UserAgent})
	}
	if cfg.EnableOpenAlex && oa != nil {
		srcs = append(srcs, &OpenAlex{Client: oa})
	}
	if cfg.EnableArxiv {
		srcs = append(srcs, &Arxiv{Client: client, UserAgent: cfg.UserAgent})
	}
	if cfg.EnableCrossref {
		srcs = append(srcs, &Crossref{Client: client, Email: cfg.Email, UserAgent: cfg.UserAgent})
	}
	return srcs
}
