// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/export"
	"github.com/pdiddy/syllabus-engine/internal/loader"
	"github.com/pdiddy/syllabus-engine/internal/syllabus"
	"github.com/pdiddy/syllabus-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [input]",
	Short: "Extract the semester, subject and module structure of a syllabus",
	Long: `Extract reads a syllabus document, scans its lines for semester headings,
subject codes and module headings, and writes the nested structure as JSON
(or the format given by --format).

The input defaults to the configured document, which is
FE-Final-Syllabus-approved-by-AC-on-26th-July-2019.pdf unless overridden.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	ec := cfg.Extract
	if len(args) > 0 {
		ec.Input = args[0]
	}
	if cmd.Flags().Changed("out") {
		ec.Output, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("format") {
		ec.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("strict") {
		ec.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("pdftotext-fallback") {
		ec.FallbackPdftotext, _ = cmd.Flags().GetBool("pdftotext-fallback")
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	return extract(cmd.Context(), ec, quiet, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// extract runs loader, parser and serializer for one document. Nothing is
// written when loading or parsing fails.
func extract(ctx context.Context, ec types.ExtractConfig, quiet bool, stdout, stderr io.Writer) error {
	var format export.Format
	if ec.Format != "" {
		f, err := export.ParseFormat(ec.Format)
		if err != nil {
			return err
		}
		format = f
	}

	lines, err := loader.Load(ctx, ec.Input, loader.Options{FallbackPdftotext: ec.FallbackPdftotext})
	if err != nil {
		return err
	}

	opts := syllabus.Options{Rules: ec.Rules, Strict: ec.Strict}
	if !quiet {
		opts.Observer = syllabus.NewProgressPrinter(stdout)
	}
	syl, rep, err := syllabus.Parse(lines, opts)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", ec.Input, err)
	}
	reportWarnings(stderr, ec.Input, rep)

	if err := export.Write(ec.Output, format, syl); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nSyllabus structure saved to: %s\n", ec.Output)
	return nil
}

// reportWarnings notes on w a parse that recorded nothing or dropped
// module headings.
func reportWarnings(w io.Writer, input string, rep syllabus.Report) {
	if rep.Dropped > 0 {
		fmt.Fprintf(w, "warning: %d module heading(s) in %s appeared before any semester or subject and were dropped\n", rep.Dropped, input)
	}
	if rep.Modules == 0 {
		fmt.Fprintf(w, "warning: no modules were found in %s (%d semesters, %d subjects); the output is empty\n",
			input, rep.Semesters, rep.Subjects)
	}
}

func init() {
	extractCmd.Flags().StringP("out", "o", types.DefaultOutput, "output file")
	extractCmd.Flags().String("format", "", "output format: json, yaml, markdown or html (default: from --out extension)")
	extractCmd.Flags().Bool("strict", false, "fail when a module heading appears before any semester or subject")
	extractCmd.Flags().Bool("quiet", false, "suppress progress lines")
	extractCmd.Flags().Bool("pdftotext-fallback", true, "retry unreadable PDFs with the pdftotext binary")

	rootCmd.AddCommand(extractCmd)
}
