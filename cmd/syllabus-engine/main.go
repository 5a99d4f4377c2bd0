// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the syllabus-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/secrets"
	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets = secrets.Secrets{}

// rootCmd is the base command for the syllabus-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "syllabus-engine",
	Short: "Extract and query the structure of course syllabus documents",
	Long: `syllabus-engine reads a syllabus document (PDF, DOCX, HTML or text),
reconstructs its semester, subject and module hierarchy, and writes it as JSON.

The extracted structure can be re-exported as YAML, Markdown or HTML, indexed
into a local SQLite store for search, used to classify study-material files by
subject, and served over a read-only HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./syllabus-engine.yaml or ~/.config/syllabus-engine/syllabus-engine.yaml)")
}

func initConfig() {
	setDefaults(viper.GetViper(), types.DefaultConfig())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("syllabus-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "syllabus-engine"))
		}
	}

	viper.SetEnvPrefix("SYLLABUS_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so that environment
// variables can override keys absent from the config file.
func setDefaults(v *viper.Viper, cfg types.Config) {
	v.SetDefault("extract.input", cfg.Extract.Input)
	v.SetDefault("extract.output", cfg.Extract.Output)
	v.SetDefault("extract.format", cfg.Extract.Format)
	v.SetDefault("extract.strict", cfg.Extract.Strict)
	v.SetDefault("extract.fallback_pdftotext", cfg.Extract.FallbackPdftotext)
	v.SetDefault("extract.rules.semester_pattern", cfg.Extract.Rules.SemesterPattern)
	v.SetDefault("extract.rules.subject_code_pattern", cfg.Extract.Rules.SubjectCodePattern)
	v.SetDefault("extract.rules.module_keyword", cfg.Extract.Rules.ModuleKeyword)
	v.SetDefault("extract.rules.skip_prefix", cfg.Extract.Rules.SkipPrefix)
	v.SetDefault("extract.rules.header_lookahead", cfg.Extract.Rules.HeaderLookahead)
	v.SetDefault("extract.rules.header_stops_at_module", cfg.Extract.Rules.HeaderStopsAtModule)

	v.SetDefault("store.dir", cfg.Store.Dir)
	v.SetDefault("store.max_results", cfg.Store.MaxResults)

	v.SetDefault("serve.addr", cfg.Serve.Addr)
	v.SetDefault("serve.syllabus", cfg.Serve.Syllabus)
	v.SetDefault("serve.api_key", cfg.Serve.APIKey)
}

// loadConfig decodes the merged defaults, config file and environment.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// storeConfig applies the --store-dir and --max-results flags, when present
// and set, over the configured store settings.
func storeConfig(cmd *cobra.Command, cfg types.StoreConfig) types.StoreConfig {
	if f := cmd.Flags().Lookup("store-dir"); f != nil && f.Changed {
		cfg.Dir = f.Value.String()
	}
	if cmd.Flags().Changed("max-results") {
		cfg.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
