package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-school-search/internal/logging"
	"github.com/gcbaptista/go-school-search/services"
)

// demoQueries run when search is given no arguments.
var demoQueries = []string{
	"elementary school highland park",
	"jefferson belleville",
	"riverside school 44",
	"granada charter school",
	"foley high alabama",
	"KUSKOKWIM",
}

const querySeparator = "- - -"

func newSearchCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query...]",
		Short: "Run queries and print the top matches.",
		Long: `Indexes the CSV file and prints the best matches for each query.
With no arguments a fixed set of sample queries is run.

  school_search search "jefferson belleville" "KUSKOKWIM"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.load()
			if err != nil {
				return err
			}
			// Keep stdout for results.
			logger := logging.New(cmd.ErrOrStderr(), settings.Logging.Level, settings.Logging.Format)

			eng, err := newEngine(cmd, settings, logger, nil)
			if err != nil {
				return err
			}

			queries := args
			if len(queries) == 0 {
				queries = demoQueries
			}
			return runQueries(cmd, eng, queries)
		},
	}
}

func runQueries(cmd *cobra.Command, searcher services.Searcher, queries []string) error {
	out := cmd.OutOrStdout()
	for i, query := range queries {
		if i > 0 {
			fmt.Fprintln(out, querySeparator)
		}
		result, err := searcher.Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search %q: %w", query, err)
		}
		printResult(out, query, result)
	}
	return nil
}

// printResult writes one query's results, numbered from 1.
func printResult(w io.Writer, query string, result services.SearchResult) {
	fmt.Fprintf(w, "Results for \"%s\" (search took: %.3fs)\n", query, result.ElapsedSeconds())
	for i, school := range result.Schools {
		fmt.Fprintf(w, "%d. %s\n", i+1, school.Name)
		fmt.Fprintf(w, "%s, %s\n", school.City, school.State)
	}
}
