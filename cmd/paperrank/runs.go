// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperrank/internal/identity"
	"github.com/pdiddy/paperrank/internal/library"
)

var runsCmd = &cobra.Command{
	Use:   "runs [NAME]",
	Short: "List, show, export or delete saved runs",
	Long: `Runs manages the ranked runs saved with "paperrank search --save NAME".
Without arguments it lists every run, newest first. With a NAME it prints that
run's ranked papers, or exports or deletes it. --doi lists the runs that
contain a paper.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	flags := cmd.Flags()
	jsonOutput, _ := flags.GetBool("json")

	if doi, _ := flags.GetString("doi"); doi != "" {
		names, err := store.RunsWithDOI(ctx, identity.NormalizeDOI(doi))
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(w, names)
		}
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return nil
	}

	if len(args) == 0 {
		runs, err := store.ListRuns(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(w, runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, "No saved runs.")
			return nil
		}
		fmt.Fprintf(w, "%-20s  %-12s  %6s  %-20s  %s\n", "Name", "Profile", "Papers", "Created", "Query")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for _, r := range runs {
			fmt.Fprintf(w, "%-20s  %-12s  %6d  %-20s  %s\n",
				truncate(r.Name, 20), r.Profile, r.Papers, r.CreatedAt.Format("2006-01-02 15:04"), r.Query)
		}
		return nil
	}

	name := args[0]
	if del, _ := flags.GetBool("delete"); del {
		if err := store.DeleteRun(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted run %s\n", name)
		return nil
	}

	if format, _ := flags.GetString("export"); format != "" {
		var path string
		switch strings.ToLower(format) {
		case "yaml", "yml":
			path, err = store.ExportYAML(ctx, name)
		case "json":
			path, err = store.ExportJSON(ctx, name)
		default:
			return fmt.Errorf("unknown export format %q (want yaml or json)", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported %s\n", path)
		return nil
	}

	run, err := store.LoadRun(ctx, name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, run)
	}
	fmt.Fprintf(w, "Run: %s  Query: %q  Profile: %s  Filter: %s  Expanded: %t\n",
		run.Name, run.Query, run.Profile, run.Filter, run.Expanded)
	fmt.Fprintf(w, "Scores: min %.2f  median %.2f  mean %.2f  max %.2f\n\n",
		run.Summary.Min, run.Summary.Median, run.Summary.Mean, run.Summary.Max)
	return writePapers(w, run.Papers)
}

func init() {
	runsCmd.Flags().Bool("json", false, "output as JSON")
	runsCmd.Flags().Bool("delete", false, "delete the named run")
	runsCmd.Flags().String("export", "", "export the named run to the library directory: yaml or json")
	runsCmd.Flags().String("doi", "", "list the runs containing this DOI")

	rootCmd.AddCommand(runsCmd)
}
