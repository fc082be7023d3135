// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite attributes sentences of a synthesized answer to source
// chunks via lexical overlap, assigns stable citation identifiers, and
// renders bibliographies.
package cite

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/resynth/pkg/types"
)

// overlapThreshold is the minimum lexical overlap ratio for a chunk to be
// considered the source of a sentence. The rule is a heuristic with no
// semantic grounding; it is deterministic, not linguistically accurate.
const overlapThreshold = 0.3

// stopwords are excluded from overlap tokens.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
}

// yearRe matches a 4-digit year.
var yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

// ParseStyle maps a style name to a CitationStyle. Unknown names fall back
// to numeric rather than failing.
func ParseStyle(name string) types.CitationStyle {
	switch types.CitationStyle(strings.ToLower(strings.TrimSpace(name))) {
	case types.StyleAPA:
		return types.StyleAPA
	case types.StyleMLA:
		return types.StyleMLA
	case types.StyleAuthorDate:
		return types.StyleAuthorDate
	default:
		return types.StyleNumeric
	}
}

// BuildCitations derives one Citation per distinct paper title in the
// chunk list, in first-seen order, numbered 1-based in that order.
func BuildCitations(chunks []types.RetrievalResult) []types.Citation {
	var citations []types.Citation
	seen := make(map[string]bool)

	for _, chunk := range chunks {
		title := chunk.Metadata.PaperTitle
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		citations = append(citations, types.Citation{
			PaperTitle: title,
			Authors:    chunk.Metadata.PaperAuthors,
			Year:       extractYear(chunk.Metadata.Published),
			Journal:    chunk.Metadata.PaperJournal,
			DOI:        chunk.Metadata.PaperDOI,
			URL:        chunk.Metadata.PaperURL,
			Number:     len(citations) + 1,
		})
	}
	return citations
}

// extractYear pulls a publication year out of a date string: a full date
// parse first, then a 4-digit scan. Returns 0 when no year is found.
func extractYear(date string) int {
	if date == "" {
		return 0
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	if m := yearRe.FindStringSubmatch(date); len(m) >= 2 {
		year, _ := strconv.Atoi(m[1])
		return year
	}
	return 0
}

// Attribute inserts inline citation markers into a draft answer. Each
// sentence is matched against the chunks in their given order; the first
// chunk exceeding the overlap threshold whose paper is not yet cited gets
// its marker appended to the sentence. Each paper is cited at most once
// per answer (first qualifying sentence wins); unmatched sentences stay
// unmarked. All numbering state is local to this call, so concurrent
// answers never share counters.
func Attribute(draft string, chunks []types.RetrievalResult, style types.CitationStyle) (string, []types.Citation) {
	citations := BuildCitations(chunks)
	if len(citations) == 0 {
		return draft, nil
	}

	byTitle := make(map[string]*types.Citation, len(citations))
	for i := range citations {
		byTitle[citations[i].PaperTitle] = &citations[i]
	}

	cited := make(map[string]bool)
	sentences := splitSentences(draft)

	for i, sentence := range sentences {
		tokens := overlapTokens(sentence)
		if len(tokens) == 0 {
			continue
		}
		for _, chunk := range chunks {
			title := chunk.Metadata.PaperTitle
			if title == "" || cited[title] {
				continue
			}
			if overlapRatio(tokens, chunk.Text) <= overlapThreshold {
				continue
			}
			sentences[i] = sentence + " " + marker(byTitle[title], style)
			cited[title] = true
			break
		}
	}

	return strings.Join(sentences, " "), citations
}

// marker renders the inline citation for a style. The apa and mla styles
// use numeric inline markers; their full formatting applies to
// bibliography entries only.
func marker(c *types.Citation, style types.CitationStyle) string {
	if style != types.StyleAuthorDate {
		return "[" + strconv.Itoa(c.Number) + "]"
	}

	author := "Anonymous"
	switch {
	case len(c.Authors) == 1:
		author = c.Authors[0]
	case len(c.Authors) > 1:
		author = c.Authors[0] + " et al."
	}
	year := "n.d."
	if c.Year > 0 {
		year = strconv.Itoa(c.Year)
	}
	return "(" + author + ", " + year + ")"
}

// splitSentences breaks text after '.', '!', or '?' followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 >= len(text) || !isSpace(text[i+1]) {
				continue
			}
			out = append(out, text[start:i+1])
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(text) {
		if rest := text[start:]; strings.TrimSpace(rest) != "" {
			out = append(out, rest)
		}
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// overlapTokens returns the lowercased non-stopword tokens of a sentence.
func overlapTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if f != "" && !stopwords[f] {
			tokens[f] = true
		}
	}
	return tokens
}

// overlapRatio is |sentence tokens ∩ chunk tokens| / |sentence tokens|.
func overlapRatio(sentenceTokens map[string]bool, chunkText string) float64 {
	chunkTokens := overlapTokens(chunkText)
	if len(chunkTokens) == 0 {
		return 0
	}
	shared := 0
	for tok := range sentenceTokens {
		if chunkTokens[tok] {
			shared++
		}
	}
	return float64(shared) / float64(len(sentenceTokens))
}
