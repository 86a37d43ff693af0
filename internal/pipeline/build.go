// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperrank/internal/graph"
	"github.com/pdiddy/paperrank/internal/observability"
	"github.com/pdiddy/paperrank/internal/openalex"
	"github.com/pdiddy/paperrank/internal/rank"
	"github.com/pdiddy/paperrank/internal/sources"
	"github.com/pdiddy/paperrank/internal/venue"
	"github.com/pdiddy/paperrank/pkg/types"
)

// Profiles returns the built-in weight profiles layered with those of
// cfg.ProfilesFile, if set.
func Profiles(cfg types.RankingConfig) (rank.Profiles, error) {
	if cfg.ProfilesFile == "" {
		return rank.DefaultProfiles(), nil
	}
	return rank.LoadProfiles(cfg.ProfilesFile)
}

// FromConfig builds a Pipeline and its collaborators from configuration.
// A single OpenAlex client serves as search source, graph API, DOI rescuer
// and author authority lookup.
func FromConfig(cfg types.PipelineConfig, log zerolog.Logger) (*Pipeline, error) {
	profiles, err := Profiles(cfg.Ranking)
	if err != nil {
		return nil, err
	}
	profile, ok := profiles.Lookup(cfg.Ranking.Profile)
	if !ok && cfg.Ranking.Profile != "" {
		log.Warn().Str("profile", cfg.Ranking.Profile).Str("using", profile.Name).Msg("unknown profile")
	}

	var venues *venue.Table
	if cfg.Ranking.VenueFile != "" {
		venues, err = venue.LoadFile(cfg.Ranking.VenueFile)
		if err != nil {
			return nil, fmt.Errorf("loading venue table: %w", err)
		}
		log.Info().Int("venues", venues.Len()).Msg("loaded venue table")
	} else {
		log.Warn().Msg("no venue table configured, venue scores will be 0")
	}

	oa := openalex.NewClient(
		openalex.WithHTTPClient(&http.Client{Timeout: cfg.Sources.Timeout}),
		openalex.WithEmail(cfg.Sources.Email),
		openalex.WithUserAgent(cfg.Sources.UserAgent),
		openalex.WithRateLimit(cfg.Expansion.RequestsPerSecond),
	)

	engine := rank.NewEngine(
		rank.WithVenues(venues),
		rank.WithAuthority(oa),
		rank.WithConcurrency(cfg.Ranking.AuthorConcurrency),
		rank.WithAuthorTimeout(cfg.Ranking.AuthorTimeout),
		rank.WithCacheSize(cfg.Ranking.AuthorCacheSize),
		rank.WithLogger(observability.WithComponent(log, "rank")),
	)

	expander := graph.New(oa,
		graph.WithBatchSize(cfg.Expansion.BatchSize),
		graph.WithCallTimeout(cfg.Expansion.CallTimeout),
		graph.WithTitleSearcher(oa),
		graph.WithVenues(venues),
		graph.WithLogger(observability.WithComponent(log, "graph")),
	)

	return New(engine,
		WithSources(sources.FromConfig(cfg.Sources, oa)...),
		WithRescuer(oa),
		WithExpander(expander, cfg.Expansion.TopN),
		WithProfile(profile),
		WithLogger(log),
	), nil
}
