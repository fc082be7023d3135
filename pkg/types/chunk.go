// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ChunkType identifies how a chunk was produced.
type ChunkType string

const (
	// ChunkSemantic marks chunks built from paragraph boundaries.
	ChunkSemantic ChunkType = "semantic"

	// ChunkWindow marks chunks from the fixed-stride fallback.
	ChunkWindow ChunkType = "window"
)

// ChunkMetadata carries paper provenance for a chunk. It is populated once
// at chunk creation from the source Paper and never re-derived downstream.
type ChunkMetadata struct {
	PaperTitle   string   `json:"paper_title" yaml:"paper_title"`
	PaperAuthors []string `json:"paper_authors,omitempty" yaml:"paper_authors,omitempty"`
	PaperURL     string   `json:"paper_url,omitempty" yaml:"paper_url,omitempty"`
	PaperJournal string   `json:"paper_journal,omitempty" yaml:"paper_journal,omitempty"`
	PaperDOI     string   `json:"paper_doi,omitempty" yaml:"paper_doi,omitempty"`

	// Published is the paper's publication date rendered as a string
	// (RFC 3339 date, or empty when unknown).
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Type records whether the chunk came from paragraph packing or the
	// fixed-stride fallback.
	Type ChunkType `json:"chunk_type" yaml:"chunk_type"`
}

// Chunk is a bounded span of a paper's preprocessed text, stored as one
// retrievable unit. Chunks are created during ingestion and are immutable
// afterward; the vector index is their persistent store.
type Chunk struct {
	// ChunkID is deterministic: "<paperSourceID>_<start>_<end>". Offsets
	// differ per chunk, so IDs are unique within a batch.
	ChunkID string `json:"chunk_id" yaml:"chunk_id"`

	// Text is the chunk content. Never empty.
	Text string `json:"text" yaml:"text"`

	// PaperID is the source paper's SourceID.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// PaperTitle and PaperAuthors duplicate the metadata for callers that
	// only need headline provenance.
	PaperTitle   string   `json:"paper_title" yaml:"paper_title"`
	PaperAuthors []string `json:"paper_authors,omitempty" yaml:"paper_authors,omitempty"`

	// StartChar and EndChar delimit the half-open range [StartChar, EndChar)
	// into the preprocessed paper text. Overlap regions duplicate text
	// across neighboring chunks, so EndChar-StartChar need not equal
	// len(Text); 0 <= StartChar < EndChar always holds.
	StartChar int `json:"start_char" yaml:"start_char"`
	EndChar   int `json:"end_char" yaml:"end_char"`

	Metadata ChunkMetadata `json:"metadata" yaml:"metadata"`
}

// MakeChunkID derives the deterministic chunk identifier from a paper
// source ID and the chunk's character range.
func MakeChunkID(paperID string, start, end int) string {
	return fmt.Sprintf("%s_%d_%d", paperID, start, end)
}
