// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/export"
	"github.com/pdiddy/syllabus-engine/internal/store"
)

var indexCmd = &cobra.Command{
	Use:   "index <syllabus-file...>",
	Short: "Load extracted syllabi into the search store",
	Long: `Index reads one or more syllabus files (JSON or YAML) and stores their
modules in a SQLite database with full-text indexing. Files whose content is
unchanged since the last run are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	st, err := store.Open(storeConfig(cmd, cfg.Store))
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	var failed int
	for _, path := range args {
		syl, err := export.Load(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			failed++
			continue
		}
		res, err := st.Index(cmd.Context(), path, syl)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: indexing %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s: %s (%d modules)\n", res.Source, res.Status, res.Modules)
	}

	if !st.FullText() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: SQLite was built without FTS5; search uses substring matching")
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", failed)
	}
	return nil
}

func init() {
	indexCmd.Flags().String("store-dir", "index", "directory containing syllabus.db")

	rootCmd.AddCommand(indexCmd)
}
