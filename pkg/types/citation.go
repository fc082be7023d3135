// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationStyle selects an academic citation rendering.
type CitationStyle string

const (
	StyleNumeric    CitationStyle = "numeric"
	StyleAPA        CitationStyle = "apa"
	StyleMLA        CitationStyle = "mla"
	StyleAuthorDate CitationStyle = "author_date"
)

// Citation is one cited paper within a synthesized answer, keyed by paper
// title. Citations are created fresh per answer and discarded afterward.
type Citation struct {
	// PaperTitle is the citation key.
	PaperTitle string `json:"paper_title" yaml:"paper_title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`

	// Number is the 1-based numeric-style identifier, assigned in
	// first-seen order over the chunk list used for one answer. Zero for
	// styles that do not number citations.
	Number int `json:"citation_number,omitempty" yaml:"citation_number,omitempty"`
}

// SynthesizedAnswer is the final output of the pipeline: an answer with
// inline citation markers, the citations used, a rendered bibliography, and
// a confidence score.
type SynthesizedAnswer struct {
	// ID identifies this answer instance.
	ID string `json:"id" yaml:"id"`

	// Answer is the answer text with inline citation markers inserted.
	Answer string `json:"answer" yaml:"answer"`

	// Citations lists one Citation per cited paper, in first-seen order
	// over the source chunks.
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`

	// Bibliography is the rendered reference list.
	Bibliography string `json:"bibliography,omitempty" yaml:"bibliography,omitempty"`

	// Confidence is in [0, 1]; 0.0 signals a degraded or empty answer.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SourceChunks are the retrieval results the answer was built from.
	SourceChunks []RetrievalResult `json:"source_chunks,omitempty" yaml:"source_chunks,omitempty"`

	// Intent is the classified intent of the originating query.
	Intent Intent `json:"intent" yaml:"intent"`
}

// CitationFor returns the citation for a paper title, or nil when the
// answer does not cite that paper.
func (a *SynthesizedAnswer) CitationFor(paperTitle string) *Citation {
	for i := range a.Citations {
		if a.Citations[i].PaperTitle == paperTitle {
			return &a.Citations[i]
		}
	}
	return nil
}
