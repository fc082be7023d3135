// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Intent classifies what kind of answer a query is asking for. It is
// consumed by answer synthesis, not by retrieval itself.
type Intent string

const (
	IntentQuestion   Intent = "question"
	IntentComparison Intent = "comparison"
	IntentSummary    Intent = "summary"
	IntentMethod     Intent = "method"
	IntentGeneral    Intent = "general"
)

// QueryMetadata carries query-processing context attached to every
// retrieval result for downstream synthesis.
type QueryMetadata struct {
	// Intent is the classified query intent.
	Intent Intent `json:"intent" yaml:"intent"`

	// SearchTerms are the key terms extracted from the query, in
	// first-seen order.
	SearchTerms []string `json:"search_terms,omitempty" yaml:"search_terms,omitempty"`
}

// RetrievalResult is one ranked chunk returned for a query. Results are
// ephemeral: produced per query and discarded after the response.
type RetrievalResult struct {
	ChunkID  string        `json:"chunk_id" yaml:"chunk_id"`
	Text     string        `json:"text" yaml:"text"`
	Metadata ChunkMetadata `json:"metadata" yaml:"metadata"`

	// Similarity is the cosine similarity in [0, 1], already converted
	// from the index's native distance.
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// FromExpansion is true when the result came from an expansion query
	// rather than the primary query.
	FromExpansion bool `json:"from_expansion,omitempty" yaml:"from_expansion,omitempty"`

	// Query carries the intent classification and search terms of the
	// originating request.
	Query QueryMetadata `json:"query_metadata" yaml:"query_metadata"`
}

// QualityReport summarizes retrieval quality diagnostics for one result set.
type QualityReport struct {
	// Query is the query the results were retrieved for.
	Query string `json:"query" yaml:"query"`

	// Valid is true when no quality issues were flagged.
	Valid bool `json:"valid" yaml:"valid"`

	// Reason explains an invalid empty result set ("no results").
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	AverageSimilarity float64 `json:"average_similarity" yaml:"average_similarity"`
	MinSimilarity     float64 `json:"min_similarity" yaml:"min_similarity"`

	// DiversityScore is uniquePapers / totalResults.
	DiversityScore float64 `json:"diversity_score" yaml:"diversity_score"`

	UniquePapers int `json:"unique_papers" yaml:"unique_papers"`
	TotalResults int `json:"total_results" yaml:"total_results"`

	// Issues lists the flagged problems; Suggestions maps them to canned
	// remediation advice.
	Issues      []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}
