// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/filter"
	"github.com/pdiddy/paperrank/internal/library"
	"github.com/pdiddy/paperrank/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search academic APIs and rank the merged results",
	Long: `Search queries every enabled source (Semantic Scholar, OpenAlex, arXiv,
Crossref), merges the records into one set keyed by DOI, rescues missing DOIs
through OpenAlex title search, and ranks the papers with the selected profile.

With --expand-top N the N best papers become seeds for a one-hop citation
expansion; the grown network is ranked again. Use --filter to keep only the
papers a quality preset accepts, and --save to store the run in the library.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("--query is required")
	}
	applySearchFlags(cmd)

	var preset filter.Preset
	filterName, _ := cmd.Flags().GetString("filter")
	if filterName != "" {
		p, err := filter.Lookup(filterName)
		if err != nil {
			return err
		}
		preset = p
	}

	p, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := p.Run(ctx, query, cfg.Sources.LimitPerSource)
	if err != nil {
		return err
	}
	counts := filter.Counts(res.Papers, res.Expanded)
	if filterName != "" {
		before := len(res.Papers)
		res.Papers = filter.Select(res.Papers, preset, res.Expanded)
		logger.Info().Str("filter", preset.Name).Int("kept", len(res.Papers)).Int("of", before).Msg("applied quality filter")
	}

	if name, _ := cmd.Flags().GetString("save"); name != "" {
		if err := saveRun(ctx, name, filterName, res); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	writeSearchSummary(cmd.OutOrStdout(), res, counts)
	return writePapers(cmd.OutOrStdout(), res.Papers)
}

// applySearchFlags lets explicit flags override the configuration.
func applySearchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Sources.LimitPerSource, _ = flags.GetInt("limit")
	}
	if flags.Changed("expand-top") {
		cfg.Expansion.TopN, _ = flags.GetInt("expand-top")
	}
	applyProfileFlag(cmd)
}

func applyProfileFlag(cmd *cobra.Command) {
	if cmd.Flags().Changed("profile") {
		cfg.Ranking.Profile, _ = cmd.Flags().GetString("profile")
	}
}

func saveRun(ctx context.Context, name, filterName string, res pipeline.Result) error {
	store, err := library.NewStore(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	run := library.Run{
		Name:      name,
		Query:     res.Query,
		Profile:   res.Profile,
		Filter:    filterName,
		Expanded:  res.Expanded,
		CreatedAt: time.Now().UTC(),
		Summary:   res.Summary,
		Papers:    res.Papers,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	logger.Info().Str("run", name).Str("dir", store.Dir()).Int("papers", len(res.Papers)).Msg("saved run")
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query (required)")
	searchCmd.Flags().Int("limit", 10, "maximum records requested from each source")
	searchCmd.Flags().String("profile", "", "weight profile (default from config, else general)")
	searchCmd.Flags().Int("expand-top", 0, "expand the citation network of the top N papers (0 disables)")
	searchCmd.Flags().String("filter", "", "quality filter preset: strict, balanced, broad, all")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "save the ranked run to the library under this name")

	rootCmd.AddCommand(searchCmd)
}
