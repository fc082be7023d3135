// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query cleans, classifies, and expands user queries to improve
// retrieval recall.
package query

import (
	"strings"

	"github.com/pdiddy/resynth/internal/segment"
	"github.com/pdiddy/resynth/pkg/types"
)

// stopwords are excluded from search terms and key-phrase spans.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "what": true, "how": true, "why": true, "when": true,
	"where": true, "who": true, "which": true,
}

// Intent vocabularies, matched in priority order: question words against
// the first token, the rest against any token.
var (
	questionWords = []string{
		"what", "how", "why", "when", "where", "who", "which",
		"is", "are", "do", "does", "can", "could", "should", "would",
	}
	comparisonWords = []string{
		"compare", "difference", "versus", "vs", "better", "worse",
		"advantages", "disadvantages",
	}
	summaryWords = []string{
		"summary", "overview", "review", "survey", "introduction", "background",
	}
	methodWords = []string{
		"method", "technique", "approach", "algorithm", "procedure", "process",
	}
)

// variationPatterns are academic phrasings used to build expansion variants
// around a key phrase.
var variationPatterns = []string{
	"research on %s",
	"%s studies",
	"%s analysis",
	"%s methods",
	"%s applications",
	"recent %s",
	"%s overview",
}

// CleanQuery normalizes a raw user query for retrieval.
func CleanQuery(q string) string {
	return segment.CleanText(q)
}

// ClassifyIntent buckets a query into question, comparison, summary,
// method, or general. First match wins in that priority order.
func ClassifyIntent(q string) types.Intent {
	tokens := tokenize(q)
	if len(tokens) == 0 {
		return types.IntentGeneral
	}

	for _, w := range questionWords {
		if tokens[0] == w {
			return types.IntentQuestion
		}
	}

	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	for _, w := range comparisonWords {
		if set[w] {
			return types.IntentComparison
		}
	}
	for _, w := range summaryWords {
		if set[w] {
			return types.IntentSummary
		}
	}
	for _, w := range methodWords {
		if set[w] {
			return types.IntentMethod
		}
	}
	return types.IntentGeneral
}

// tokenize lowercases and splits a query into alphanumeric tokens.
func tokenize(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// KeyPhraser extracts short noun-like key phrases from text. The default
// implementation is a heuristic stand-in for an external NLP capability;
// callers may supply their own.
type KeyPhraser interface {
	KeyPhrases(text string, max int) []string
}

// heuristicPhraser groups consecutive non-stopword tokens into spans of at
// most four words, in first-seen order.
type heuristicPhraser struct{}

// maxPhraseWords limits key-phrase span length.
const maxPhraseWords = 4

func (heuristicPhraser) KeyPhrases(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var phrases []string
	seen := make(map[string]bool)
	add := func(span []string) {
		if len(span) == 0 || len(span) > maxPhraseWords {
			return
		}
		phrase := strings.Join(span, " ")
		key := strings.ToLower(phrase)
		if !seen[key] {
			seen[key] = true
			phrases = append(phrases, phrase)
		}
	}

	var span []string
	for _, tok := range tokenize(text) {
		if stopwords[tok] || len(tok) <= 2 {
			add(span)
			span = nil
			continue
		}
		span = append(span, tok)
	}
	add(span)

	if len(phrases) > max {
		phrases = phrases[:max]
	}
	return phrases
}

// Expander produces ranked query variants and retrieval plans.
type Expander struct {
	phraser KeyPhraser
}

// NewExpander builds an Expander with the heuristic key phraser.
func NewExpander() *Expander {
	return &Expander{phraser: heuristicPhraser{}}
}

// NewExpanderWith builds an Expander around a custom key phraser.
func NewExpanderWith(p KeyPhraser) *Expander {
	return &Expander{phraser: p}
}

// Expand returns up to max query variants. The cleaned original query is
// always first; variants are key phrases standalone plus up to two
// templated variations per phrase. Duplicates are removed
// case-insensitively; a variant identical to the original is skipped.
func (e *Expander) Expand(q string, max int) []string {
	cleaned := CleanQuery(q)
	if cleaned == "" {
		return nil
	}
	if max <= 0 {
		max = 1
	}

	expanded := []string{cleaned}
	seen := map[string]bool{strings.ToLower(cleaned): true}
	add := func(v string) {
		key := strings.ToLower(v)
		if len(expanded) < max && !seen[key] {
			seen[key] = true
			expanded = append(expanded, v)
		}
	}

	for _, phrase := range e.phraser.KeyPhrases(cleaned, max) {
		add(phrase)
		for i, n := 0, 0; i < len(variationPatterns) && n < 2; i++ {
			v := strings.Replace(variationPatterns[i], "%s", phrase, 1)
			if strings.EqualFold(v, cleaned) {
				continue
			}
			if len(expanded) >= max {
				break
			}
			add(v)
			n++
		}
	}
	return expanded
}

// maxSearchTerms caps the extracted term list.
const maxSearchTerms = 10

// SearchTerms extracts the key phrases and significant standalone words of
// a query, deduplicated in first-seen order.
func (e *Expander) SearchTerms(q string) []string {
	cleaned := CleanQuery(q)
	if cleaned == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]bool)
	add := func(t string) {
		key := strings.ToLower(t)
		if !seen[key] && len(terms) < maxSearchTerms {
			seen[key] = true
			terms = append(terms, t)
		}
	}

	for _, phrase := range e.phraser.KeyPhrases(cleaned, 5) {
		add(phrase)
	}
	for _, tok := range tokenize(cleaned) {
		if len(tok) > 2 && !stopwords[tok] {
			add(tok)
		}
	}
	return terms
}

// Plan bundles everything query processing derives from one raw query.
type Plan struct {
	Original    string       `json:"original_query"`
	Cleaned     string       `json:"processed_query"`
	Intent      types.Intent `json:"query_type"`
	SearchTerms []string     `json:"search_terms"`
	Expansions  []string     `json:"expanded_queries"`
}

// Plan derives the full retrieval plan for a query.
func (e *Expander) Plan(q string, maxExpansions int) Plan {
	return Plan{
		Original:    q,
		Cleaned:     CleanQuery(q),
		Intent:      ClassifyIntent(q),
		SearchTerms: e.SearchTerms(q),
		Expansions:  e.Expand(q, maxExpansions),
	}
}
