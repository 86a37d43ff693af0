// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/filter"
	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/internal/pipeline"
	"github.com/pdiddy/paperrank/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand DOI...",
	Short: "Rank the citation neighborhood of the given papers",
	Long: `Expand treats the given DOIs as seeds, fetches the works they reference and
the works citing them from OpenAlex, and ranks the resulting network.
Each discovered paper records how many seeds co-cite it and its normalized
network centrality; --filter presets use the co-citation count.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	seeds, err := seedsFromArgs(args)
	if err != nil {
		return err
	}
	applyProfileFlag(cmd)

	p, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := p.Expand(ctx, seeds)
	if err != nil {
		return err
	}
	if len(res.Network) == 0 {
		return fmt.Errorf("none of the %d seeds could be expanded", len(seeds))
	}

	counts := filter.Counts(res.Papers, res.Expanded)
	if name, _ := cmd.Flags().GetString("filter"); name != "" {
		preset, err := filter.Lookup(name)
		if err != nil {
			return err
		}
		res.Papers = filter.Apply(res.Network, preset)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	writeSearchSummary(cmd.OutOrStdout(), res, counts)
	return writePapers(cmd.OutOrStdout(), res.Papers)
}

// seedsFromArgs turns DOI arguments into bare seed papers.
func seedsFromArgs(args []string) ([]*types.Paper, error) {
	seeds := make([]*types.Paper, 0, len(args))
	for _, arg := range args {
		doi := identity.NormalizeDOI(arg)
		if doi == "" {
			return nil, fmt.Errorf("not a DOI: %q", arg)
		}
		seeds = append(seeds, &types.Paper{Key: doi, DOI: doi})
	}
	return seeds, nil
}

func init() {
	expandCmd.Flags().String("profile", "", "weight profile (default from config, else general)")
	expandCmd.Flags().String("filter", "", "quality filter preset: strict, balanced, broad, all")
	expandCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(expandCmd)
}
