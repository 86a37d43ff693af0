// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperrank/internal/filter"
	"github.com/pdiddy/paperrank/internal/library"
	"github.com/pdiddy/paperrank/internal/pipeline"
	"github.com/pdiddy/paperrank/internal/sources"
	"github.com/pdiddy/paperrank/pkg/types"
)

func TestDecodeConfigOverlaysDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
sources:
  timeout: 5s
  email: me@example.org
  enable_arxiv: false
expansion:
  top_n: 3
ranking:
  profile: cs
`)))

	c, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, c.Sources.Timeout)
	assert.Equal(t, "paperrank/0.1", c.Sources.UserAgent)
	assert.Equal(t, "me@example.org", c.Sources.Email)
	assert.False(t, c.Sources.EnableArxiv)
	assert.True(t, c.Sources.EnableCrossref)
	assert.Equal(t, 3, c.Expansion.TopN)
	assert.Equal(t, 50, c.Expansion.BatchSize)
	assert.Equal(t, "cs", c.Ranking.Profile)
	assert.Equal(t, "library", c.Library.Dir)
}

func TestDecodeConfigReadsEnvironment(t *testing.T) {
	t.Setenv("PAPERRANK_RANKING_VENUE_FILE", "/data/scimago.csv")

	v := viper.New()
	v.SetEnvPrefix("PAPERRANK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	c, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/scimago.csv", c.Ranking.VenueFile)
	assert.Equal(t, "general", c.Ranking.Profile)
}

func TestSeedsFromArgs(t *testing.T) {
	seeds, err := seedsFromArgs([]string{"https://doi.org/10.1000/ABC", "doi:10.2000/x"})
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "10.1000/abc", seeds[0].DOI)
	assert.Equal(t, "10.1000/abc", seeds[0].Key)
	assert.Equal(t, "10.2000/x", seeds[1].DOI)

	_, err = seedsFromArgs([]string{"not-a-doi"})
	assert.ErrorContains(t, err, "not a DOI")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestWritePapers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePapers(&buf, []*types.Paper{
		{Title: "Deep learning", Year: 2015, CitationCount: 25, CompositeScore: 61.2, DOI: "10.1/dl", IsSeed: true},
		{Title: "Untitled follow-up", CompositeScore: 12.5},
	}))
	out := buf.String()
	assert.Contains(t, out, "* Deep learning")
	assert.Contains(t, out, "61.20")
	assert.Contains(t, out, "2 papers")

	buf.Reset()
	require.NoError(t, writePapers(&buf, nil))
	assert.Equal(t, "No papers.\n", buf.String())
}

func TestWriteSearchSummaryShowsFilterCounts(t *testing.T) {
	papers := []*types.Paper{
		{Key: "a", CitationCount: 40, VenueMetrics: &types.VenueMetrics{RankIndex: 150, Quartile: "Q1"}},
		{Key: "b", CitationCount: 6},
	}
	res := pipeline.Result{
		Profile: "general",
		Papers:  papers,
		Stats:   sources.Stats{Records: 3, Unique: 2, Failed: []string{"arxiv"}},
	}

	var buf bytes.Buffer
	writeSearchSummary(&buf, res, filter.Counts(papers, false))
	out := buf.String()
	assert.Contains(t, out, "Failed sources: arxiv")
	assert.Contains(t, out, "Papers per filter: strict 1  balanced 1  broad 2  all 2")
}

func TestRunsCommandListsSavedRuns(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "library")

	store, err := library.NewStore(types.LibraryConfig{Dir: libDir})
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(context.Background(), library.Run{
		Name:      "crispr",
		Query:     "crispr off-target",
		Profile:   "medicine",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Papers:    []*types.Paper{{Key: "10.1/a", DOI: "10.1/a", Title: "A"}},
	}))
	require.NoError(t, store.Close())

	cfgPath := filepath.Join(dir, "paperrank.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("library:\n  dir: "+libDir+"\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "--secrets-dir", filepath.Join(dir, "none"), "runs"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "crispr")
	assert.Contains(t, out.String(), "medicine")
	assert.Contains(t, out.String(), "crispr off-target")
}
