// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperrank/pkg/types"
)

// envKeyReplacer maps nested keys such as ranking.venue_file to
// PAPERRANK_RANKING_VENUE_FILE.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig overlays viper's settings onto the defaults.
func loadConfig() (types.PipelineConfig, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.PipelineConfig, error) {
	c := types.DefaultPipelineConfig()
	setDefaults(v, c)
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	return c, nil
}

// setDefaults registers every key so AutomaticEnv can override values that
// are absent from the config file.
func setDefaults(v *viper.Viper, c types.PipelineConfig) {
	defaults := map[string]any{
		"sources.timeout":                  c.Sources.Timeout,
		"sources.user_agent":               c.Sources.UserAgent,
		"sources.limit_per_source":         c.Sources.LimitPerSource,
		"sources.enable_semantic_scholar":  c.Sources.EnableSemanticScholar,
		"sources.enable_openalex":          c.Sources.EnableOpenAlex,
		"sources.enable_arxiv":             c.Sources.EnableArxiv,
		"sources.enable_crossref":          c.Sources.EnableCrossref,
		"sources.semantic_scholar_api_key": c.Sources.SemanticScholarAPIKey,
		"sources.email":                    c.Sources.Email,
		"expansion.batch_size":             c.Expansion.BatchSize,
		"expansion.call_timeout":           c.Expansion.CallTimeout,
		"expansion.top_n":                  c.Expansion.TopN,
		"expansion.requests_per_second":    c.Expansion.RequestsPerSecond,
		"ranking.profile":                  c.Ranking.Profile,
		"ranking.profiles_file":            c.Ranking.ProfilesFile,
		"ranking.venue_file":               c.Ranking.VenueFile,
		"ranking.author_concurrency":       c.Ranking.AuthorConcurrency,
		"ranking.author_timeout":           c.Ranking.AuthorTimeout,
		"ranking.author_cache_size":        c.Ranking.AuthorCacheSize,
		"logging.level":                    c.Logging.Level,
		"logging.format":                   c.Logging.Format,
		"logging.output":                   c.Logging.Output,
		"library.dir":                      c.Library.Dir,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
