// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resynth/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the local SQLite catalog (list, search, stats)",
	Long: `Catalog inspects the local SQLite record of indexed papers and chunks.
Use subcommands to list papers, run lexical full-text search over chunk
text, or print summary statistics.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed papers and their chunk counts",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(pipelineConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListPapers(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No papers indexed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-50s  %-10s  %s\n", "ID", "Title", "Published", "Chunks")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, rec := range records {
		title := rec.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-50s  %-10s  %d\n", rec.ID, title, rec.Published, rec.Chunks)
	}
	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(records))
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Lexical full-text search over indexed chunk text",
	Long: `Search runs an FTS5 query against the chunk text in the catalog. This
is the keyword complement to the vector search in retrieve.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	paperID, _ := cmd.Flags().GetString("paper")

	store, err := catalog.NewStore(pipelineConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), catalog.SearchOptions{
		Query:      strings.Join(args, " "),
		PaperID:    paperID,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-28s  %-40s  %s\n", "Rank", "Chunk", "Paper", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for i, r := range results {
		chunkID := r.ChunkID
		if len(chunkID) > 28 {
			chunkID = chunkID[:25] + "..."
		}
		title := r.Metadata.PaperTitle
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-28s  %-40s  %s\n", i+1, chunkID, title, text)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog summary statistics",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(pipelineConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Summarize(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("papers: %d\nchunks: %d\n", stats.Papers, stats.Chunks)
	return nil
}

func init() {
	catalogListCmd.Flags().Bool("json", false, "output as JSON")

	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().String("paper", "", "restrict to a paper ID")
	catalogSearchCmd.Flags().Bool("json", false, "output as JSON")

	catalogStatsCmd.Flags().Bool("json", false, "output as JSON")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogStatsCmd)

	rootCmd.AddCommand(catalogCmd)
}
