// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resynth/internal/query"
)

var expandCmd = &cobra.Command{
	Use:   "expand [query]",
	Short: "Show how a query is cleaned, classified, and expanded",
	Long: `Expand runs the query analysis stage without touching the index: it
prints the cleaned query, the detected intent, the extracted search
terms, and the expansion variants that retrieval would issue.`,
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().Int("max-expansions", 0, "maximum expansion variants (0 = use default)")
	expandCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a query to expand")
	}
	q := strings.Join(args, " ")

	maxExpansions, _ := cmd.Flags().GetInt("max-expansions")
	if maxExpansions <= 0 {
		maxExpansions = pipelineConfig().Retrieval.MaxExpansions
	}

	plan := query.NewExpander().Plan(q, maxExpansions)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	fmt.Printf("Query:    %s\n", plan.Original)
	fmt.Printf("Cleaned:  %s\n", plan.Cleaned)
	fmt.Printf("Intent:   %s\n", plan.Intent)
	fmt.Printf("Terms:    %s\n", strings.Join(plan.SearchTerms, ", "))
	fmt.Println("Expansions:")
	for i, v := range plan.Expansions {
		fmt.Printf("  %d. %s\n", i+1, v)
	}
	return nil
}
