// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/resynth/pkg/types"
)

// Segmenter splits papers into overlapping chunks. It prefers paragraph
// boundaries and falls back to fixed-stride character windows when the
// preprocessed text has no usable paragraphs.
type Segmenter struct {
	chunkSize int
	overlap   int
}

// NewSegmenter builds a Segmenter. A non-positive chunkSize uses the
// default (1000); a negative overlap is treated as zero; an overlap at or
// above chunkSize is clamped to chunkSize-1 so windows always advance.
func NewSegmenter(cfg types.ChunkingConfig) *Segmenter {
	size := cfg.ChunkSize
	if size <= 0 {
		size = 1000
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Segmenter{chunkSize: size, overlap: overlap}
}

// Segment preprocesses one paper and returns its ordered chunks. A paper
// whose preprocessed text is empty yields no chunks and no error.
func (s *Segmenter) Segment(paper *types.Paper) ([]types.Chunk, error) {
	if paper == nil {
		return nil, fmt.Errorf("nil paper")
	}

	text := Preprocess(paper.Title, paper.Abstract, paper.Content)
	if text == "" {
		return nil, nil
	}

	// Paragraph packing needs blank-line boundaries to work with; a text
	// without any is a single run and goes straight to fixed windows.
	if !strings.Contains(text, "\n\n") {
		return s.windowChunks(text, paper), nil
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return s.windowChunks(text, paper), nil
	}
	return s.paragraphChunks(paragraphs, paper), nil
}

// paragraphChunks greedily packs paragraphs into buffers of at most
// chunkSize characters, joined by blank lines. When a paragraph would
// overflow, the buffer is flushed and the next buffer is seeded with the
// last overlap characters of the flushed text.
func (s *Segmenter) paragraphChunks(paragraphs []paragraph, paper *types.Paper) []types.Chunk {
	var chunks []types.Chunk
	var buf string
	var bufStart, bufEnd int

	for _, p := range paragraphs {
		if buf == "" {
			buf, bufStart, bufEnd = p.text, p.start, p.end
			continue
		}
		if len(buf)+len(p.text)+2 <= s.chunkSize {
			buf += "\n\n" + p.text
			bufEnd = p.end
			continue
		}

		chunks = append(chunks, s.newChunk(paper, buf, bufStart, bufEnd, types.ChunkSemantic))

		if s.overlap > 0 && len(buf) > s.overlap {
			tail := buf[len(buf)-s.overlap:]
			buf = tail + "\n\n" + p.text
			bufStart = bufEnd - s.overlap
			bufEnd = p.end
		} else {
			buf, bufStart, bufEnd = p.text, p.start, p.end
		}
	}

	if strings.TrimSpace(buf) != "" {
		chunks = append(chunks, s.newChunk(paper, buf, bufStart, bufEnd, types.ChunkSemantic))
	}
	return chunks
}

// windowChunks covers the whole text with fixed windows of chunkSize
// characters advancing by chunkSize-overlap per step, leaving no gaps.
func (s *Segmenter) windowChunks(text string, paper *types.Paper) []types.Chunk {
	stride := s.chunkSize - s.overlap
	if stride <= 0 {
		stride = s.chunkSize
	}

	var chunks []types.Chunk
	for start := 0; start < len(text); start += stride {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		if strings.TrimSpace(text[start:end]) != "" {
			chunks = append(chunks, s.newChunk(paper, text[start:end], start, end, types.ChunkWindow))
		}
		if end == len(text) {
			break
		}
	}
	return chunks
}

func (s *Segmenter) newChunk(paper *types.Paper, text string, start, end int, kind types.ChunkType) types.Chunk {
	published := ""
	if !paper.Published.IsZero() {
		published = paper.Published.Format("2006-01-02")
	}
	return types.Chunk{
		ChunkID:      types.MakeChunkID(paper.SourceID(), start, end),
		Text:         text,
		PaperID:      paper.SourceID(),
		PaperTitle:   paper.Title,
		PaperAuthors: paper.Authors,
		StartChar:    start,
		EndChar:      end,
		Metadata: types.ChunkMetadata{
			PaperTitle:   paper.Title,
			PaperAuthors: paper.Authors,
			PaperURL:     paper.URL,
			PaperJournal: paper.Journal,
			PaperDOI:     paper.DOI,
			Published:    published,
			Type:         kind,
		},
	}
}

// BatchSummary holds counts from a multi-paper segmentation run.
type BatchSummary struct {
	Segmented int
	Empty     int
	Failed    int
}

// Total returns the number of papers processed.
func (s BatchSummary) Total() int {
	return s.Segmented + s.Empty + s.Failed
}

// SegmentAll chunks every paper, reporting per-paper progress to w. A
// failure on one paper is reported and skipped; it never aborts the batch.
func (s *Segmenter) SegmentAll(papers []*types.Paper, w io.Writer) ([]types.Chunk, BatchSummary) {
	var all []types.Chunk
	var summary BatchSummary

	for i, paper := range papers {
		chunks, err := s.Segment(paper)
		if err != nil {
			fmt.Fprintf(w, "failed  paper %d: %v\n", i+1, err)
			summary.Failed++
			continue
		}
		if len(chunks) == 0 {
			fmt.Fprintf(w, "skipped %s: no usable text\n", paper.Title)
			summary.Empty++
			continue
		}
		fmt.Fprintf(w, "segmented %s (%d chunks)\n", paper.Title, len(chunks))
		all = append(all, chunks...)
		summary.Segmented++
	}

	fmt.Fprintf(w, "\nsegmented: %d, empty: %d, failed: %d\n",
		summary.Segmented, summary.Empty, summary.Failed)
	return all, summary
}

// ChunkStats summarizes a chunk batch.
type ChunkStats struct {
	TotalChunks   int     `json:"total_chunks"`
	AverageLength float64 `json:"average_chunk_length"`
	MinLength     int     `json:"min_chunk_length"`
	MaxLength     int     `json:"max_chunk_length"`
	TotalChars    int     `json:"total_characters"`
}

// Stats computes length statistics over a chunk batch.
func Stats(chunks []types.Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}
	stats := ChunkStats{
		TotalChunks: len(chunks),
		MinLength:   len(chunks[0].Text),
	}
	for _, c := range chunks {
		n := len(c.Text)
		stats.TotalChars += n
		if n < stats.MinLength {
			stats.MinLength = n
		}
		if n > stats.MaxLength {
			stats.MaxLength = n
		}
	}
	stats.AverageLength = float64(stats.TotalChars) / float64(len(chunks))
	return stats
}
