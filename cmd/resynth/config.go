// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/resynth/internal/cite"
	"github.com/pdiddy/resynth/internal/embed"
	"github.com/pdiddy/resynth/internal/llm"
	"github.com/pdiddy/resynth/internal/secrets"
	"github.com/pdiddy/resynth/internal/synthesis"
	"github.com/pdiddy/resynth/internal/vectorstore"
	"github.com/pdiddy/resynth/pkg/types"
)

// pipelineConfig builds the effective configuration: stock defaults
// overridden by whatever the config file or environment sets.
func pipelineConfig() types.PipelineConfig {
	cfg := types.Defaults()

	setInt := func(dst *int, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	setFloat := func(dst *float64, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	setString := func(dst *string, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}

	setInt(&cfg.Chunking.ChunkSize, "chunking.chunk_size")
	setInt(&cfg.Chunking.ChunkOverlap, "chunking.chunk_overlap")

	setInt(&cfg.Retrieval.TopK, "retrieval.top_k")
	setFloat(&cfg.Retrieval.SimilarityThreshold, "retrieval.similarity_threshold")
	setInt(&cfg.Retrieval.MaxExpansions, "retrieval.max_expansions")

	setString(&cfg.Index.QdrantURL, "index.qdrant_url")
	setString(&cfg.Index.Collection, "index.collection")
	setInt(&cfg.Index.VectorSize, "index.vector_size")
	setString(&cfg.Index.Embedding.BaseURL, "index.embedding.base_url")
	setString(&cfg.Index.Embedding.Model, "index.embedding.model")
	setString(&cfg.Index.Embedding.APIKey, "index.embedding.api_key")
	setInt(&cfg.Index.Embedding.MaxRetries, "index.embedding.max_retries")

	setString(&cfg.Synthesis.BaseURL, "synthesis.base_url")
	setString(&cfg.Synthesis.Model, "synthesis.model")
	setString(&cfg.Synthesis.APIKey, "synthesis.api_key")
	setInt(&cfg.Synthesis.MaxRetries, "synthesis.max_retries")
	setString(&cfg.Synthesis.Style, "synthesis.style")

	setString(&cfg.Catalog.DataDir, "catalog.data_dir")
	setInt(&cfg.Catalog.MaxResults, "catalog.max_results")

	cfg.Index.Embedding.APIKey = secretDefault(secrets.OpenAIAPIKey, cfg.Index.Embedding.APIKey)
	cfg.Synthesis.APIKey = secretDefault(secrets.OpenAIAPIKey, cfg.Synthesis.APIKey)

	return cfg
}

// buildIndex connects the embeddings client and the Qdrant store.
func buildIndex(cfg types.PipelineConfig) (*vectorstore.Store, error) {
	embedder := embed.NewClient(cfg.Index.Embedding, cfg.Index.VectorSize)
	return vectorstore.NewStore(
		cfg.Index.QdrantURL,
		secretDefault(secrets.QdrantAPIKey, ""),
		embedder,
		cfg.Index.Collection,
		cfg.Index.VectorSize,
	)
}

// buildSynthesizer wires the chat completion client into a synthesizer.
// Without a model configured the synthesizer runs its extractive path.
func buildSynthesizer(cfg types.PipelineConfig, style string) *synthesis.Synthesizer {
	if style == "" {
		style = cfg.Synthesis.Style
	}
	var completer synthesis.Completer
	if cfg.Synthesis.Model != "" && cfg.Synthesis.BaseURL != "" {
		completer = llm.NewClient(cfg.Synthesis.AIConfig)
	}
	return synthesis.NewSynthesizer(completer, cite.ParseStyle(style))
}
