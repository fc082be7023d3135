// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/pdiddy/resynth/pkg/types"
)

// PointID derives a deterministic UUID for a chunk. Qdrant point IDs must
// be UUIDs or integers, so the chunk ID is hashed into a version-5 UUID.
// Re-indexing the same chunk always overwrites the same point.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// chunkPayload flattens a chunk into a Qdrant payload map. The original
// chunk ID rides along because the point ID is a hash of it.
func chunkPayload(chunk types.Chunk) map[string]any {
	authors := make([]any, len(chunk.Metadata.PaperAuthors))
	for i, a := range chunk.Metadata.PaperAuthors {
		authors[i] = a
	}
	return map[string]any{
		"chunk_id":      chunk.ChunkID,
		"text":          chunk.Text,
		"paper_id":      chunk.PaperID,
		"paper_title":   chunk.Metadata.PaperTitle,
		"paper_authors": authors,
		"paper_url":     chunk.Metadata.PaperURL,
		"paper_journal": chunk.Metadata.PaperJournal,
		"paper_doi":     chunk.Metadata.PaperDOI,
		"published":     chunk.Metadata.Published,
		"chunk_type":    string(chunk.Metadata.Type),
		"start_char":    int64(chunk.StartChar),
		"end_char":      int64(chunk.EndChar),
	}
}

// resultFromPayload rebuilds a retrieval result from a scored point's
// payload. Missing or mistyped fields degrade to zero values rather than
// failing the whole search.
func resultFromPayload(payload map[string]*qdrant.Value, score float64) types.RetrievalResult {
	res := types.RetrievalResult{
		ChunkID:    payloadString(payload, "chunk_id"),
		Text:       payloadString(payload, "text"),
		Similarity: score,
	}
	res.Metadata = types.ChunkMetadata{
		PaperTitle:   payloadString(payload, "paper_title"),
		PaperAuthors: payloadStrings(payload, "paper_authors"),
		PaperURL:     payloadString(payload, "paper_url"),
		PaperJournal: payloadString(payload, "paper_journal"),
		PaperDOI:     payloadString(payload, "paper_doi"),
		Published:    payloadString(payload, "published"),
		Type:         types.ChunkType(payloadString(payload, "chunk_type")),
	}
	return res
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	return v.GetStringValue()
}

func payloadStrings(payload map[string]*qdrant.Value, key string) []string {
	v, ok := payload[key]
	if !ok || v == nil {
		return nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list.Values))
	for _, item := range list.Values {
		if s := item.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
