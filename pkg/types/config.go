// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "resynth/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call an OpenAI-compatible API.
type AIConfig struct {
	// BaseURL is the API base (e.g. "https://api.openai.com" or a local
	// llama.cpp server).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key. Usually supplied via .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ChunkingConfig holds settings for the chunk segmenter.
type ChunkingConfig struct {
	// ChunkSize is the maximum chunk length in characters (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap carried between consecutive chunks
	// (default 200). Values >= ChunkSize are clamped to ChunkSize-1.
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// RetrievalConfig holds settings for the retrieval merger.
type RetrievalConfig struct {
	// TopK is the default number of results to return (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// SimilarityThreshold is the minimum acceptable similarity (default 0.7).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// MaxExpansions caps the query-expansion variant list (default 3).
	MaxExpansions int `json:"max_expansions" yaml:"max_expansions"`
}

// IndexConfig holds settings for the vector index and embedding service.
type IndexConfig struct {
	HTTPConfig `yaml:",inline"`

	// QdrantURL is the Qdrant endpoint (e.g. "http://localhost:6333").
	QdrantURL string `json:"qdrant_url" yaml:"qdrant_url"`

	// Collection is the Qdrant collection name (default "research_papers").
	Collection string `json:"collection" yaml:"collection"`

	// VectorSize is the embedding dimension (default 384).
	VectorSize int `json:"vector_size" yaml:"vector_size"`

	// Embedding configures the embedding API client.
	Embedding AIConfig `json:"embedding" yaml:"embedding"`
}

// SynthesisConfig holds settings for answer synthesis.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`

	// Style is the citation style: numeric, apa, mla, or author_date.
	Style string `json:"style" yaml:"style"`
}

// CatalogConfig holds settings for the local SQLite catalog.
type CatalogConfig struct {
	// DataDir is the base directory for catalog state (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults limits lexical search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Chunking  ChunkingConfig  `json:"chunking" yaml:"chunking"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
}

// Defaults returns a PipelineConfig with the stock settings.
func Defaults() PipelineConfig {
	return PipelineConfig{
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK:                5,
			SimilarityThreshold: 0.7,
			MaxExpansions:       3,
		},
		Index: IndexConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "resynth/0.1",
			},
			QdrantURL:  "http://localhost:6333",
			Collection: "research_papers",
			VectorSize: 384,
			Embedding: AIConfig{
				BaseURL:    "http://localhost:8080",
				Model:      "all-MiniLM-L6-v2",
				MaxRetries: 3,
			},
		},
		Synthesis: SynthesisConfig{
			AIConfig: AIConfig{
				BaseURL:    "https://api.openai.com",
				Model:      "gpt-3.5-turbo",
				MaxRetries: 3,
			},
			Style: string(StyleNumeric),
		},
		Catalog: CatalogConfig{
			DataDir:    "data",
			MaxResults: 20,
		},
	}
}
