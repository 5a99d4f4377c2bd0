// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/classify"
	"github.com/pdiddy/syllabus-engine/internal/export"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <filename...>",
	Short: "Suggest the subject a study-material file belongs to",
	Long: `Classify matches each filename's words against keywords taken from the
subject titles and module topics of an extracted syllabus, and prints the
best-matching subject. Files that match nothing are assigned GEN - General.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	path := cfg.Serve.Syllabus
	if cmd.Flags().Changed("syllabus") {
		path, _ = cmd.Flags().GetString("syllabus")
	}

	syl, err := export.Load(path)
	if err != nil {
		return err
	}

	c := classify.New(syl)
	for _, name := range args {
		r := c.Classify(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s - %s\n", name, r.Code, r.Name)
	}
	return nil
}

func init() {
	classifyCmd.Flags().String("syllabus", "syllabus_structure.json", "extracted syllabus file (JSON or YAML)")

	rootCmd.AddCommand(classifyCmd)
}
