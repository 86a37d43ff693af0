// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/filter"
	"github.com/pdiddy/paperrank/internal/pipeline"
	"github.com/pdiddy/paperrank/internal/rank"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List weight profiles and quality filter presets",
	Long: `Profiles lists the built-in weight profiles together with any loaded from
ranking.profiles_file, and the quality filter presets accepted by --filter.`,
	RunE: runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
	profiles, err := pipeline.Profiles(cfg.Ranking)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		list := make([]rank.Profile, 0, len(profiles))
		for _, name := range profiles.Names() {
			list = append(list, profiles[name])
		}
		return writeJSON(w, struct {
			Profiles []rank.Profile  `json:"profiles"`
			Filters  []filter.Preset `json:"filters"`
		}{list, filter.Presets()})
	}

	fmt.Fprintf(w, "%-12s  %6s  %6s  %7s  %9s  %9s  %-6s  %s\n",
		"Profile", "Cites", "Venue", "Recency", "Consensus", "Authority", "Decay", "Boost terms")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, name := range profiles.Names() {
		p := profiles[name]
		terms := make([]string, 0, len(p.EvidenceBoost))
		for _, b := range p.EvidenceBoost {
			terms = append(terms, fmt.Sprintf("%s(+%g)", b.Term, b.Boost))
		}
		marker := name
		if name == cfg.Ranking.Profile {
			marker = name + " *"
		}
		fmt.Fprintf(w, "%-12s  %6.2f  %6.2f  %7.2f  %9.2f  %9.2f  %-6s  %s\n",
			marker, p.Weights.NormCitations, p.Weights.Venue, p.Weights.Recency,
			p.Weights.Consensus, p.Weights.AuthorAuthority, p.RecencyDecay, strings.Join(terms, " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Filters:")
	for _, f := range filter.Presets() {
		fmt.Fprintf(w, "  %-9s  %s\n", f.Name, f.Describe())
	}
	return nil
}

func init() {
	profilesCmd.Flags().Bool("json", false, "output profiles as JSON")

	rootCmd.AddCommand(profilesCmd)
}
