// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/syllabus-engine/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <syllabus-file>",
	Short: "Re-render an extracted syllabus as JSON, YAML, Markdown or HTML",
	Long: `Export reads a syllabus previously written by extract (JSON or YAML) and
renders it in another format. Without --out the result is written next to the
input with the format's extension; --out - writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var formatExtensions = map[export.Format]string{
	export.FormatJSON:     ".json",
	export.FormatYAML:     ".yaml",
	export.FormatMarkdown: ".md",
	export.FormatHTML:     ".html",
}

func runExport(cmd *cobra.Command, args []string) error {
	input := args[0]
	name, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	syl, err := export.Load(input)
	if err != nil {
		return err
	}

	if out == "-" {
		return export.Render(cmd.OutOrStdout(), format, syl)
	}
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + formatExtensions[format]
		if out == input {
			return fmt.Errorf("refusing to overwrite %s: pass --out", input)
		}
	}

	if err := export.Write(out, format, syl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d modules to %s\n", syl.ModuleCount(), out)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: json, yaml, markdown or html")
	exportCmd.Flags().StringP("out", "o", "", "output file (default: input with the format's extension; - for stdout)")

	rootCmd.AddCommand(exportCmd)
}
