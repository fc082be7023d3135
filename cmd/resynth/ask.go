// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resynth/internal/query"
	"github.com/pdiddy/resynth/internal/retrieval"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed papers, with citations",
	Long: `Ask runs the full pipeline: the question is expanded and searched
against the vector store, and the retrieved chunks are synthesized into
a cited answer with a bibliography. Without a configured language model
the answer is assembled from key sentences of the top chunks.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("top-k", 0, "number of chunks to retrieve (0 = use default)")
	askCmd.Flags().Float64("threshold", -1, "minimum similarity (negative = use default)")
	askCmd.Flags().String("style", "", "citation style: numeric, apa, mla, author_date")
	askCmd.Flags().Bool("json", false, "output the full answer record as JSON")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a question to answer")
	}
	q := strings.Join(args, " ")

	topK, _ := cmd.Flags().GetInt("top-k")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	style, _ := cmd.Flags().GetString("style")
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
	results, err := retriever.Retrieve(ctx, q, topK, threshold)
	if err != nil {
		return err
	}

	synth := buildSynthesizer(cfg, style)
	answer := synth.Synthesize(ctx, q, results, query.ClassifyIntent(q))

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Println(answer.Answer)
	if answer.Bibliography != "" {
		fmt.Println()
		fmt.Println(answer.Bibliography)
	}
	fmt.Printf("\nConfidence: %.2f (%d sources)\n", answer.Confidence, len(answer.Citations))
	return nil
}
