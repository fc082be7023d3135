// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/resynth/pkg/types"
)

func testPaper(title, abstract, content string) *types.Paper {
	return &types.Paper{
		ID:       "paper-1",
		Title:    title,
		Abstract: abstract,
		Content:  content,
		Authors:  []string{"Ada Lovelace"},
	}
}

// --- text cleaning ---

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "deep   learning\t\nmodels", "deep learning models"},
		{"strips unusual characters", "results § shown ¶ here", "results shown here"},
		{"keeps sentence punctuation", "First, a claim. Second: proof!", "First, a claim. Second: proof!"},
		{"trims", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripCitations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"numeric marker", "Transformers [1] dominate.", "Transformers  dominate."},
		{"numeric group", "Shown in [2, 3] and [12].", "Shown in  and ."},
		{"author year", "As argued (Smith, 2020) here.", "As argued  here."},
		{"et al", "Vaswani et al. (2017) proposed attention.", " proposed attention."},
		{"untouched", "No citations here.", "No citations here."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCitations(tt.in); got != tt.want {
				t.Errorf("StripCitations(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("Attention", "Self-attention [1] scales well.", "")
	want := "Title: Attention\n\nAbstract: Self-attention scales well."
	if got != want {
		t.Errorf("Preprocess() = %q, want %q", got, want)
	}

	if got := Preprocess("", "", ""); got != "" {
		t.Errorf("Preprocess of empty paper = %q, want empty", got)
	}

	// Blank-line boundaries inside sections survive cleaning.
	multi := Preprocess("T", "first paragraph here\n\nsecond paragraph here", "")
	if !strings.Contains(multi, "first paragraph here\n\nsecond paragraph here") {
		t.Errorf("paragraph boundary lost: %q", multi)
	}
}

// --- segmenter construction ---

func TestNewSegmenterClamping(t *testing.T) {
	tests := []struct {
		name        string
		cfg         types.ChunkingConfig
		wantSize    int
		wantOverlap int
	}{
		{"defaults", types.ChunkingConfig{}, 1000, 0},
		{"negative overlap", types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: -5}, 100, 0},
		{"overlap equals size", types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 100}, 100, 99},
		{"overlap above size", types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 250}, 100, 99},
		{"normal", types.ChunkingConfig{ChunkSize: 1000, ChunkOverlap: 200}, 1000, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSegmenter(tt.cfg)
			if s.chunkSize != tt.wantSize || s.overlap != tt.wantOverlap {
				t.Errorf("got size=%d overlap=%d, want size=%d overlap=%d",
					s.chunkSize, s.overlap, tt.wantSize, tt.wantOverlap)
			}
		})
	}
}

// --- segmentation ---

func TestSegmentNilPaper(t *testing.T) {
	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20})
	if _, err := s.Segment(nil); err == nil {
		t.Fatal("expected error for nil paper")
	}
}

func TestSegmentEmptyPaper(t *testing.T) {
	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20})
	chunks, err := s.Segment(testPaper("", "", ""))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks for empty paper, want 0", len(chunks))
	}
}

func TestSegmentParagraphPacking(t *testing.T) {
	p1 := strings.Repeat("x", 100)
	p2 := strings.Repeat("y", 100)
	paper := testPaper("Paper", p1+"\n\n"+p2, "")

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 120, ChunkOverlap: 20})
	chunks, err := s.Segment(paper)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	text := Preprocess(paper.Title, paper.Abstract, paper.Content)

	for i, c := range chunks {
		if c.Metadata.Type != types.ChunkSemantic {
			t.Errorf("chunk %d type = %q, want semantic", i, c.Metadata.Type)
		}
		if c.StartChar >= c.EndChar {
			t.Errorf("chunk %d has start %d >= end %d", i, c.StartChar, c.EndChar)
		}
		if got := text[c.StartChar:c.EndChar]; got != c.Text {
			t.Errorf("chunk %d text does not match its offsets:\ngot  %q\nwant %q", i, c.Text, got)
		}
	}

	// The second chunk is seeded with the last overlap characters of the first.
	if got := chunks[1].StartChar; got != chunks[0].EndChar-20 {
		t.Errorf("second chunk starts at %d, want %d", got, chunks[0].EndChar-20)
	}
	if !strings.HasPrefix(chunks[1].Text, strings.Repeat("x", 20)) {
		t.Errorf("second chunk not seeded with overlap tail: %q", chunks[1].Text[:24])
	}
}

func TestSegmentWindowFallback(t *testing.T) {
	// Every paragraph is shorter than the minimum, forcing window mode.
	bits := make([]string, 8)
	for i := range bits {
		bits[i] = strings.Repeat("q", 30)
	}
	paper := testPaper("T", strings.Join(bits, "\n\n"), "")

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20})
	chunks, err := s.Segment(paper)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected window chunks")
	}

	text := Preprocess(paper.Title, paper.Abstract, paper.Content)

	if chunks[0].StartChar != 0 {
		t.Errorf("first window starts at %d, want 0", chunks[0].StartChar)
	}
	if last := chunks[len(chunks)-1]; last.EndChar != len(text) {
		t.Errorf("last window ends at %d, want %d", last.EndChar, len(text))
	}
	for i, c := range chunks {
		if c.Metadata.Type != types.ChunkWindow {
			t.Errorf("chunk %d type = %q, want window", i, c.Metadata.Type)
		}
		if c.EndChar-c.StartChar > 100 {
			t.Errorf("chunk %d length %d exceeds chunk size", i, c.EndChar-c.StartChar)
		}
		if i > 0 {
			if got := c.StartChar - chunks[i-1].StartChar; got != 80 {
				t.Errorf("stride between chunks %d and %d = %d, want 80", i-1, i, got)
			}
		}
	}
}

func TestSegmentSingleRunUsesWindows(t *testing.T) {
	// A text with no blank-line boundary is one long run; paragraph packing
	// would emit it whole, so it must take the fixed-window path instead.
	paper := testPaper("", "", strings.Repeat("m", 241))

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20})
	chunks, err := s.Segment(paper)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	text := Preprocess(paper.Title, paper.Abstract, paper.Content)
	if len(text) != 250 {
		t.Fatalf("preprocessed length = %d, want 250", len(text))
	}

	want := []struct{ start, end int }{{0, 100}, {80, 180}, {160, 250}}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d windows", len(chunks), len(want))
	}
	for i, c := range chunks {
		if c.StartChar != want[i].start || c.EndChar != want[i].end {
			t.Errorf("window %d = [%d,%d), want [%d,%d)",
				i, c.StartChar, c.EndChar, want[i].start, want[i].end)
		}
		if c.Metadata.Type != types.ChunkWindow {
			t.Errorf("window %d type = %q, want window", i, c.Metadata.Type)
		}
	}
}

func TestSegmentChunkIDsUnique(t *testing.T) {
	paragraphs := make([]string, 6)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat(string(rune('a'+i)), 90)
	}
	paper := testPaper("Paper", strings.Join(paragraphs, "\n\n"), "")

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 150, ChunkOverlap: 40})
	chunks, err := s.Segment(paper)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}

	seen := make(map[string]bool)
	prevStart := -1
	for _, c := range chunks {
		if seen[c.ChunkID] {
			t.Errorf("duplicate chunk ID %s", c.ChunkID)
		}
		seen[c.ChunkID] = true
		if c.StartChar <= prevStart {
			t.Errorf("chunk starts not strictly increasing: %d after %d", c.StartChar, prevStart)
		}
		prevStart = c.StartChar
	}
}

func TestSegmentMetadata(t *testing.T) {
	paper := testPaper("Deep Nets", strings.Repeat("z", 80), "")
	paper.ArxivID = "2301.07041"
	paper.URL = "https://example.org/deep"
	paper.Journal = "NeurIPS"

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 500, ChunkOverlap: 50})
	chunks, err := s.Segment(paper)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}

	c := chunks[0]
	if c.PaperID != "2301.07041" {
		t.Errorf("PaperID = %q, want arXiv ID", c.PaperID)
	}
	if !strings.HasPrefix(c.ChunkID, "2301.07041_") {
		t.Errorf("ChunkID = %q, want arXiv prefix", c.ChunkID)
	}
	if c.Metadata.PaperTitle != "Deep Nets" || c.Metadata.PaperJournal != "NeurIPS" {
		t.Errorf("metadata not carried: %+v", c.Metadata)
	}
	if len(c.Metadata.PaperAuthors) != 1 || c.Metadata.PaperAuthors[0] != "Ada Lovelace" {
		t.Errorf("authors not carried: %v", c.Metadata.PaperAuthors)
	}
}

// --- batch ---

func TestSegmentAll(t *testing.T) {
	good := testPaper("Good", strings.Repeat("g", 80), "")
	empty := testPaper("", "", "")

	s := NewSegmenter(types.ChunkingConfig{ChunkSize: 500, ChunkOverlap: 50})

	var buf bytes.Buffer
	chunks, summary := s.SegmentAll([]*types.Paper{good, empty, nil}, &buf)

	if summary.Segmented != 1 || summary.Empty != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1/1/1", summary)
	}
	if summary.Total() != 3 {
		t.Errorf("Total() = %d, want 3", summary.Total())
	}
	if len(chunks) == 0 {
		t.Error("expected chunks from the good paper")
	}

	out := buf.String()
	for _, want := range []string{"segmented Good", "skipped", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
}

// --- stats ---

func TestStats(t *testing.T) {
	if got := Stats(nil); got.TotalChunks != 0 {
		t.Errorf("Stats(nil) = %+v, want zero", got)
	}

	chunks := []types.Chunk{
		{Text: strings.Repeat("a", 10)},
		{Text: strings.Repeat("b", 30)},
	}
	got := Stats(chunks)
	if got.TotalChunks != 2 || got.MinLength != 10 || got.MaxLength != 30 {
		t.Errorf("Stats = %+v", got)
	}
	if got.AverageLength != 20 {
		t.Errorf("AverageLength = %v, want 20", got.AverageLength)
	}
	if got.TotalChars != 40 {
		t.Errorf("TotalChars = %v, want 40", got.TotalChars)
	}
}
