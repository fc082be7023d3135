// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resynth/internal/retrieval"
	"github.com/pdiddy/resynth/pkg/types"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search indexed chunks by semantic similarity",
	Long: `Retrieve embeds the query, searches the vector store, and fills the
result list with query-expansion variants when the primary search comes
up short.

Use --paper to fetch chunks from a single paper by title instead, or
--similar with a chunk ID to find related chunks. --validate appends a
quality report for the result set.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().Int("top-k", 0, "number of results (0 = use default)")
	retrieveCmd.Flags().Float64("threshold", -1, "minimum similarity (negative = use default)")
	retrieveCmd.Flags().String("paper", "", "fetch chunks from the paper with this title")
	retrieveCmd.Flags().String("similar", "", "find chunks similar to this chunk ID")
	retrieveCmd.Flags().Bool("validate", false, "append a retrieval quality report")
	retrieveCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	paperTitle, _ := cmd.Flags().GetString("paper")
	similarID, _ := cmd.Flags().GetString("similar")
	topK, _ := cmd.Flags().GetInt("top-k")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	validate, _ := cmd.Flags().GetBool("validate")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig()
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}
	if threshold < 0 {
		threshold = cfg.Retrieval.SimilarityThreshold
	}

	index, err := buildIndex(cfg)
	if err != nil {
		return err
	}
	retriever := retrieval.NewRetriever(index, cfg.Retrieval)
	retriever.Warnings = os.Stderr

	ctx := context.Background()
	q := strings.Join(args, " ")

	var results []types.RetrievalResult
	switch {
	case paperTitle != "":
		results, err = retriever.RetrieveByPaper(ctx, paperTitle, topK)
	case similarID != "":
		results, err = retriever.RetrieveSimilar(ctx, similarID, topK)
	default:
		if q == "" {
			return fmt.Errorf("provide a query, --paper, or --similar")
		}
		results, err = retriever.Retrieve(ctx, q, topK, threshold)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		out := struct {
			Results []types.RetrievalResult `json:"results"`
			Quality *types.QualityReport    `json:"quality,omitempty"`
		}{Results: results}
		if validate {
			report := retrieval.ValidateQuality(q, results)
			out.Quality = &report
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printResults(results)
	if validate {
		printQuality(retrieval.ValidateQuality(q, results))
	}
	return nil
}

func printResults(results []types.RetrievalResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-40s  %-50s  %s\n",
		"Rank", "Score", "Paper", "Text", "Via")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 112))

	for i, r := range results {
		title := r.Metadata.PaperTitle
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		via := "query"
		if r.FromExpansion {
			via = "expansion"
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.3f  %-40s  %-50s  %s\n",
			i+1, r.Similarity, title, text, via)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
}

func printQuality(report types.QualityReport) {
	status := "ok"
	if !report.Valid {
		status = "poor"
	}
	fmt.Printf("\nQuality: %s (avg %.3f, min %.3f, diversity %.2f, %d papers)\n",
		status, report.AverageSimilarity, report.MinSimilarity,
		report.DiversityScore, report.UniquePapers)
	for _, issue := range report.Issues {
		fmt.Printf("  issue: %s\n", issue)
	}
	for _, s := range report.Suggestions {
		fmt.Printf("  hint:  %s\n", s)
	}
}
