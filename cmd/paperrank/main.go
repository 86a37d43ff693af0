// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperrank CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperrank/internal/observability"
	"github.com/pdiddy/paperrank/internal/secrets"
	"github.com/pdiddy/paperrank/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration: defaults, then config file, then
	// environment, then secrets for credentials left empty.
	cfg types.PipelineConfig

	logger = zerolog.Nop()
)

// rootCmd is the base command for the paperrank CLI.
var rootCmd = &cobra.Command{
	Use:   "paperrank",
	Short: "Search, merge, expand and rank academic papers",
	Long: `paperrank queries several academic search APIs, merges their results into
one deduplicated set keyed by DOI, optionally expands the top papers into their
citation neighborhood, and ranks everything with a weighted composite score.

Ranking weights come from named profiles (general, medicine, cs, humanities, or
your own YAML file). Venue prestige comes from a Scimago-style CSV table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLogger(cfg.Logging)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		secrets.Apply(s, &cfg.Sources)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperrank.yaml or ~/.config/paperrank/paperrank.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperrank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperrank"))
		}
	}

	viper.SetEnvPrefix("PAPERRANK")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
