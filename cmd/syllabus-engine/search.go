// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/syllabus-engine/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed module topics",
	Long: `Search queries the syllabus store built by index. Free-text words must all
match a module's topic, subject title or keywords; --semester and --subject
narrow the results. With only filters, modules are listed in document order.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	semester, _ := cmd.Flags().GetString("semester")
	subject, _ := cmd.Flags().GetString("subject")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := store.QueryOptions{
		Query:       strings.Join(args, " "),
		Semester:    semester,
		SubjectCode: subject,
		MaxResults:  limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --semester, or --subject")
	}

	st, err := store.Open(storeConfig(cmd, cfg.Store))
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []store.Result, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []store.Result{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-8s  %-6s  %s\n", "Rank", "Semester", "Subject", "Module", "Topic")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-12s  %-8s  %-6d  %s\n",
			i+1, truncate(r.Semester, 12), r.SubjectCode, r.Module, truncate(r.Topic, 50))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().String("semester", "", "filter by semester name")
	searchCmd.Flags().String("subject", "", "filter by subject code")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("store-dir", "index", "directory containing syllabus.db")
	searchCmd.Flags().Int("max-results", 20, "default result limit when --limit is 0")

	rootCmd.AddCommand(searchCmd)
}
