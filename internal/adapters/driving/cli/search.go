package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

var (
	searchLimit int
	searchPart  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chapters",
	Long: `Searches chapter titles, bodies and tags. Title hits weigh most, then
tags, then body text. Run "chaptermap index" first to build the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchPart, "part", "", "only search one part (e.g. part1)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := searchService()
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{Limit: searchLimit, Part: searchPart}
	results, err := svc.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title (slug) score
		title := results[i].Chapter.Title
		if title == "" {
			title = results[i].Chapter.Slug
		}
		cmd.Printf("  [%d] %s (%s) %.1f\n", i+1, title, results[i].Chapter.Slug, results[i].Score)
		if len(results[i].Highlights) > 0 {
			cmd.Printf("      %s\n", preview(results[i].Highlights[0], 120))
		}
		cmd.Println()
	}
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := searchService()
	if err != nil {
		return err
	}

	cmd.Println("Indexing chapters...")
	n, err := svc.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	cmd.Printf("Indexed %d chapters.\n", n)
	return nil
}
