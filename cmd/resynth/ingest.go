// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resynth/internal/catalog"
	"github.com/pdiddy/resynth/internal/papers"
	"github.com/pdiddy/resynth/internal/segment"
	"github.com/pdiddy/resynth/internal/vectorstore"
	"github.com/pdiddy/resynth/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Segment papers and index them into the catalog and vector store",
	Long: `Ingest reads paper YAML files from the papers directory, segments each
into chunks, records them in the SQLite catalog, and indexes embeddings
into Qdrant. Papers whose content is unchanged since the last run are
skipped.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("papers-dir", "papers", "directory of paper YAML files")
	ingestCmd.Flags().Bool("catalog-only", false, "skip vector indexing, update only the SQLite catalog")
	ingestCmd.Flags().Bool("force", false, "re-index papers even if unchanged")

	rootCmd.AddCommand(ingestCmd)
}

// ingestSummary counts outcomes of an ingest run.
type ingestSummary struct {
	Indexed int
	Skipped int
	Empty   int
	Failed  int
}

func runIngest(cmd *cobra.Command, args []string) error {
	papersDir, _ := cmd.Flags().GetString("papers-dir")
	catalogOnly, _ := cmd.Flags().GetBool("catalog-only")
	force, _ := cmd.Flags().GetBool("force")

	cfg := pipelineConfig()
	ctx := context.Background()

	loaded, err := papers.LoadDir(papersDir, os.Stdout)
	if err != nil {
		return err
	}
	if len(loaded) == 0 {
		return fmt.Errorf("no paper YAML files in %s", papersDir)
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var index *vectorstore.Store
	if !catalogOnly {
		index, err = buildIndex(cfg)
		if err != nil {
			return err
		}
	}

	seg := segment.NewSegmenter(cfg.Chunking)

	var summary ingestSummary
	for _, paper := range loaded {
		if err := ingestPaper(ctx, paper, seg, store, index, force, &summary); err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", paper.ID, err)
			summary.Failed++
		}
	}

	fmt.Fprintf(os.Stdout, "\nindexed: %d, skipped: %d, empty: %d, failed: %d\n",
		summary.Indexed, summary.Skipped, summary.Empty, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed ingestion", summary.Failed)
	}
	return nil
}

func ingestPaper(ctx context.Context, paper *types.Paper, seg *segment.Segmenter, store *catalog.Store, index *vectorstore.Store, force bool, summary *ingestSummary) error {
	if !force {
		stored, err := store.StoredFingerprint(ctx, paper.SourceID())
		if err != nil {
			return err
		}
		if stored != "" && stored == catalog.Fingerprint(paper) {
			fmt.Fprintf(os.Stdout, "skipped %s\n", paper.ID)
			summary.Skipped++
			return nil
		}
	}

	chunks, err := seg.Segment(paper)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		fmt.Fprintf(os.Stdout, "empty   %s\n", paper.ID)
		summary.Empty++
		return nil
	}

	if err := store.UpsertPaper(ctx, paper, chunks); err != nil {
		return err
	}
	if index != nil {
		if err := index.IndexChunks(ctx, chunks); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "indexed %s (%d chunks)\n", paper.ID, len(chunks))
	summary.Indexed++
	return nil
}
