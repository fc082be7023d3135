// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval merges vector-search results for a query and its
// expansion variants into a single ranked, deduplicated list.
package retrieval

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/resynth/internal/query"
	"github.com/pdiddy/resynth/pkg/types"
)

// Index is the external vector-search collaborator. Implementations
// convert native distances to cosine similarity and filter by threshold;
// errors are fail-fast signals, never hangs.
type Index interface {
	// Search returns up to topK chunks ranked by similarity, each at or
	// above threshold.
	Search(ctx context.Context, queryText string, topK int, threshold float64) ([]types.RetrievalResult, error)

	// ChunkByID fetches one stored chunk, or nil when absent.
	ChunkByID(ctx context.Context, chunkID string) (*types.RetrievalResult, error)
}

// Retriever ranks chunk relevance against user queries. It holds no
// per-request state and is safe to share across concurrent requests.
type Retriever struct {
	index    Index
	expander *query.Expander
	cfg      types.RetrievalConfig

	// Warnings receives non-fatal diagnostics (failed expansion queries).
	// Defaults to io.Discard.
	Warnings io.Writer
}

// NewRetriever builds a Retriever over an index. Zero config fields take
// the stock defaults (top-k 5, threshold 0.7, 3 expansions).
func NewRetriever(index Index, cfg types.RetrievalConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.7
	}
	if cfg.MaxExpansions <= 0 {
		cfg.MaxExpansions = 3
	}
	return &Retriever{
		index:    index,
		expander: query.NewExpander(),
		cfg:      cfg,
		Warnings: io.Discard,
	}
}

// Retrieve finds the chunks most relevant to a query. It issues the
// cleaned primary query first and, when fewer than topK results come back,
// fills the remaining budget from expansion variants, skipping chunks
// already collected. The merged list is sorted by similarity descending and
// truncated to topK; every result carries similarity >= threshold and the
// query's intent and search terms. Non-positive topK/threshold use the
// retriever defaults. An empty query yields no results.
func (r *Retriever) Retrieve(ctx context.Context, q string, topK int, threshold float64) ([]types.RetrievalResult, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = r.cfg.TopK
	}
	if threshold <= 0 {
		threshold = r.cfg.SimilarityThreshold
	}

	plan := r.expander.Plan(q, r.cfg.MaxExpansions)

	results, err := r.index.Search(ctx, plan.Cleaned, topK, threshold)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", plan.Cleaned, err)
	}
	results = filterBelow(results, threshold)

	if len(results) < topK && len(plan.Expansions) > 1 {
		// Expansions[0] is the original query, already issued.
		extra := r.searchExpansions(ctx, plan.Expansions[1:], topK-len(results), threshold, results)
		results = append(results, extra...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > topK {
		results = results[:topK]
	}

	meta := types.QueryMetadata{Intent: plan.Intent, SearchTerms: plan.SearchTerms}
	for i := range results {
		results[i].Query = meta
	}
	return results, nil
}

// searchExpansions issues expansion queries in order until the remaining
// budget is filled, deduplicating by chunk ID against everything already
// collected. A failed expansion query is reported and skipped.
func (r *Retriever) searchExpansions(ctx context.Context, expansions []string, budget int, threshold float64, existing []types.RetrievalResult) []types.RetrievalResult {
	seen := make(map[string]bool, len(existing))
	for _, res := range existing {
		seen[res.ChunkID] = true
	}

	var extra []types.RetrievalResult
	for _, eq := range expansions {
		if len(extra) >= budget {
			break
		}
		results, err := r.index.Search(ctx, eq, budget, threshold)
		if err != nil {
			fmt.Fprintf(r.Warnings, "warning: expansion query %q failed: %v\n", eq, err)
			continue
		}
		for _, res := range filterBelow(results, threshold) {
			if seen[res.ChunkID] || len(extra) >= budget {
				continue
			}
			seen[res.ChunkID] = true
			res.FromExpansion = true
			extra = append(extra, res)
		}
	}
	return extra
}

// filterBelow drops results under the threshold. The index is expected to
// filter already; this guards against adapters that do not.
func filterBelow(results []types.RetrievalResult, threshold float64) []types.RetrievalResult {
	kept := results[:0]
	for _, res := range results {
		if res.Similarity >= threshold {
			kept = append(kept, res)
		}
	}
	return kept
}

// broadTopK is the candidate pool size for title post-filtering.
const broadTopK = 100

// RetrieveByPaper returns up to topK chunks whose paper title matches
// exactly, case-insensitively. The index has no native metadata query, so
// this is a broad unthresholded search followed by a linear post-filter.
func (r *Retriever) RetrieveByPaper(ctx context.Context, title string, topK int) ([]types.RetrievalResult, error) {
	if topK <= 0 {
		topK = 10
	}
	results, err := r.index.Search(ctx, title, broadTopK, 0)
	if err != nil {
		return nil, fmt.Errorf("searching by paper %q: %w", title, err)
	}

	var matched []types.RetrievalResult
	for _, res := range results {
		if strings.EqualFold(res.Metadata.PaperTitle, title) {
			matched = append(matched, res)
			if len(matched) == topK {
				break
			}
		}
	}
	return matched, nil
}

// similarThreshold favors recall when looking up neighbors of a chunk.
const similarThreshold = 0.3

// RetrieveSimilar finds the chunks nearest to a stored chunk, using its own
// text as a synthetic query and excluding the chunk itself. An unknown
// chunk ID yields no results.
func (r *Retriever) RetrieveSimilar(ctx context.Context, chunkID string, topK int) ([]types.RetrievalResult, error) {
	if topK <= 0 {
		topK = 5
	}
	ref, err := r.index.ChunkByID(ctx, chunkID)
	if err != nil {
		return nil, fmt.Errorf("fetching chunk %s: %w", chunkID, err)
	}
	if ref == nil {
		return nil, nil
	}

	// One extra slot accounts for the reference chunk matching itself.
	results, err := r.index.Search(ctx, ref.Text, topK+1, similarThreshold)
	if err != nil {
		return nil, fmt.Errorf("searching neighbors of %s: %w", chunkID, err)
	}

	var similar []types.RetrievalResult
	for _, res := range results {
		if res.ChunkID == chunkID {
			continue
		}
		similar = append(similar, res)
		if len(similar) == topK {
			break
		}
	}
	return similar, nil
}
