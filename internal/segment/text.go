// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment turns papers into ordered sequences of overlapping text
// chunks suitable for embedding and retrieval.
package segment

import (
	"regexp"
	"strings"
)

// Citation-marker patterns stripped during preprocessing. This is a
// best-effort lexical filter, not citation-aware parsing; false positives
// and negatives are acceptable.
var (
	// numericMarkerRe matches bracketed numeric groups: [1], [2, 3], [12].
	numericMarkerRe = regexp.MustCompile(`\[\d+(?:,\s*\d+)*\]`)

	// parenYearRe matches parenthetical author-year markers like
	// (Smith, 2020) or (see Jones et al., 2019, p. 4).
	parenYearRe = regexp.MustCompile(`\([^)]*\d{4}[^)]*\)`)

	// etAlRe matches trailing "Smith et al. (2020)" style references.
	etAlRe = regexp.MustCompile(`(?i)\w+\s+et\s+al\.\s*\(\d{4}\)`)

	// specialRe matches characters outside the retained set: word
	// characters, whitespace, and common punctuation.
	specialRe = regexp.MustCompile(`[^\w\s.,;:!?\-()\[\]{}"'/\\]`)

	// spaceRe collapses runs of whitespace.
	spaceRe = regexp.MustCompile(`\s+`)

	// paragraphSepRe splits text on blank-line boundaries.
	paragraphSepRe = regexp.MustCompile(`\n\s*\n`)
)

// minParagraphChars is the shortest paragraph kept after cleaning.
const minParagraphChars = 50

// CleanText normalizes whitespace and drops unusual characters while
// keeping sentence punctuation intact.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = specialRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// StripCitations removes inline citation markers: bracketed numeric groups,
// parenthetical "(Author, Year)" patterns, and "X et al. (Year)" patterns.
func StripCitations(text string) string {
	if text == "" {
		return ""
	}
	text = numericMarkerRe.ReplaceAllString(text, "")
	text = parenYearRe.ReplaceAllString(text, "")
	text = etAlRe.ReplaceAllString(text, "")
	return text
}

// Preprocess builds the canonical text a paper is chunked from: the
// labelled title, abstract, and optional content sections joined by blank
// lines, with citation markers stripped and each paragraph's whitespace
// normalized. Chunk offsets refer to this text.
func Preprocess(title, abstract, content string) string {
	var sections []string
	if title != "" {
		sections = append(sections, "Title: "+title)
	}
	if abstract != "" {
		sections = append(sections, "Abstract: "+abstract)
	}
	if content != "" {
		sections = append(sections, "Content: "+content)
	}
	if len(sections) == 0 {
		return ""
	}

	raw := StripCitations(strings.Join(sections, "\n\n"))

	// Normalize each paragraph independently so blank-line boundaries
	// survive for the segmenter.
	var paragraphs []string
	for _, p := range paragraphSepRe.Split(raw, -1) {
		cleaned := CleanText(p)
		if cleaned != "" {
			paragraphs = append(paragraphs, cleaned)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// paragraph is a usable paragraph with its offsets in the preprocessed text.
type paragraph struct {
	text       string
	start, end int
}

// splitParagraphs returns the paragraphs of preprocessed text that survive
// the minimum-length filter, with their character offsets. Preprocessed
// paragraphs are exact substrings separated by "\n\n".
func splitParagraphs(text string) []paragraph {
	var out []paragraph
	offset := 0
	for _, p := range strings.Split(text, "\n\n") {
		if len(p) >= minParagraphChars {
			out = append(out, paragraph{text: p, start: offset, end: offset + len(p)})
		}
		offset += len(p) + 2
	}
	return out
}
