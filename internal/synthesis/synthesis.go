// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis assembles cited answers from retrieved chunks, using
// an LLM when available and a local extractive fallback otherwise.
package synthesis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/resynth/internal/cite"
	"github.com/pdiddy/resynth/pkg/types"
)

// Completer is the LLM collaborator. Implementations carry their own
// timeouts; an error is a fail-fast signal that triggers the extractive
// fallback.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// noResultsAnswer is returned when retrieval found nothing.
const noResultsAnswer = "I couldn't find relevant information to answer your question. " +
	"Please try rephrasing your query or check that relevant papers are indexed."

// Synthesizer builds SynthesizedAnswers. It holds no per-request state;
// citation numbering is scoped to each Synthesize call.
type Synthesizer struct {
	completer Completer // nil means local synthesis only
	style     types.CitationStyle
}

// NewSynthesizer builds a Synthesizer. completer may be nil, in which case
// every answer uses the local extractive path.
func NewSynthesizer(completer Completer, style types.CitationStyle) *Synthesizer {
	return &Synthesizer{completer: completer, style: style}
}

// Synthesize produces a cited answer for a query from its retrieval
// results. It never returns an error: an empty result set or a failed LLM
// call degrades to a well-formed low-confidence answer.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []types.RetrievalResult, intent types.Intent) *types.SynthesizedAnswer {
	if len(results) == 0 {
		return &types.SynthesizedAnswer{
			ID:         uuid.NewString(),
			Answer:     noResultsAnswer,
			Confidence: 0.0,
			Intent:     intent,
		}
	}

	draft := ""
	if s.completer != nil {
		if text, err := s.completer.Complete(ctx, systemPrompt(intent), userPrompt(query, results)); err == nil {
			draft = text
		}
	}
	if draft == "" {
		draft = extractiveDraft(query, results, intent)
	}

	cited, citations := cite.Attribute(draft, results, s.style)

	return &types.SynthesizedAnswer{
		ID:           uuid.NewString(),
		Answer:       cited,
		Citations:    citations,
		Bibliography: cite.RenderBibliography(citations, s.style),
		Confidence:   confidence(results, cited),
		SourceChunks: results,
		Intent:       intent,
	}
}

// confidence scores an answer from the average chunk similarity (weight
// 0.5), the chunk count normalized to five (0.3), and the answer length
// normalized to 500 characters (0.2), capped at 1.0.
func confidence(results []types.RetrievalResult, answer string) float64 {
	if len(results) == 0 || answer == "" {
		return 0.0
	}
	var sum float64
	for _, res := range results {
		sum += res.Similarity
	}
	avg := sum / float64(len(results))
	chunkFactor := math.Min(float64(len(results))/5.0, 1.0)
	lengthFactor := math.Min(float64(len(answer))/500.0, 1.0)
	return math.Min(avg*0.5+chunkFactor*0.3+lengthFactor*0.2, 1.0)
}

// --- extractive fallback ---

// maxFallbackChunks and maxKeyPoints bound the local synthesis skeleton.
const (
	maxFallbackChunks = 5
	maxKeyPoints      = 3
)

// extractiveDraft assembles an answer skeleton without an LLM: the top
// chunks by similarity contribute up to three key sentences each, grouped
// under an intent-appropriate lead line.
func extractiveDraft(query string, results []types.RetrievalResult, intent types.Intent) string {
	ranked := make([]types.RetrievalResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	if len(ranked) > maxFallbackChunks {
		ranked = ranked[:maxFallbackChunks]
	}

	lines := []string{leadLine(intent)}
	if intent == types.IntentSummary {
		for _, point := range uniqueKeyPoints(ranked) {
			lines = append(lines, "- "+point)
		}
	} else {
		for _, res := range ranked {
			points := keyPoints(res.Text)
			if len(points) == 0 {
				continue
			}
			lines = append(lines, "", res.Metadata.PaperTitle+":")
			for _, point := range points {
				lines = append(lines, "- "+point)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func leadLine(intent types.Intent) string {
	switch intent {
	case types.IntentQuestion:
		return "Based on the research papers, here's the answer to your question:"
	case types.IntentComparison:
		return "Here's a comparison based on the research papers:"
	case types.IntentSummary:
		return "Summary of key findings:"
	case types.IntentMethod:
		return "Methods and approaches described in the papers:"
	default:
		return "Based on the research papers:"
	}
}

// keyPoints extracts up to three "key" sentences from chunk text: long
// enough to carry content, and either containing a digit or notably long.
func keyPoints(text string) []string {
	var points []string
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 20 {
			continue
		}
		if hasDigit(sentence) || len(sentence) > 50 {
			points = append(points, sentence)
			if len(points) == maxKeyPoints {
				break
			}
		}
	}
	return points
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// maxSummaryPoints caps the summary skeleton.
const maxSummaryPoints = 10

// uniqueKeyPoints merges key sentences across chunks, deduplicated in
// first-seen order.
func uniqueKeyPoints(results []types.RetrievalResult) []string {
	var points []string
	seen := make(map[string]bool)
	for _, res := range results {
		for _, point := range keyPoints(res.Text) {
			if !seen[point] && len(points) < maxSummaryPoints {
				seen[point] = true
				points = append(points, point)
			}
		}
	}
	return points
}

// --- LLM prompts ---

const basePrompt = "You are a research assistant that synthesizes information from " +
	"academic papers. Provide accurate, well-structured answers based on the " +
	"provided context. Always cite your sources and be precise about what " +
	"information comes from which paper."

// systemPrompt shapes the LLM instruction to the query intent.
func systemPrompt(intent types.Intent) string {
	switch intent {
	case types.IntentQuestion:
		return basePrompt + " For questions, provide direct, specific answers with supporting evidence from the papers."
	case types.IntentComparison:
		return basePrompt + " For comparisons, clearly identify similarities and differences between approaches, methods, or findings."
	case types.IntentSummary:
		return basePrompt + " For summaries, provide a comprehensive overview of the key points and findings."
	case types.IntentMethod:
		return basePrompt + " For method-related queries, explain techniques, procedures, and implementations in detail."
	default:
		return basePrompt + " Provide a comprehensive and informative response."
	}
}

// maxContextAuthors limits the authors listed per source in the prompt.
const maxContextAuthors = 3

// userPrompt renders the query and the retrieved context for the LLM.
func userPrompt(query string, results []types.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nContext from research papers:\n", query)
	for i, res := range results {
		authors := res.Metadata.PaperAuthors
		authorText := strings.Join(truncateAuthors(authors), ", ")
		if len(authors) > maxContextAuthors {
			authorText += " et al."
		}
		fmt.Fprintf(&b, "\nSource %d: %s\nAuthors: %s\nContent: %s\nSimilarity Score: %.3f\n",
			i+1, res.Metadata.PaperTitle, authorText, res.Text, res.Similarity)
	}
	b.WriteString("\nPlease provide a comprehensive answer to the query based on the " +
		"provided context. Include specific information and cite the relevant " +
		"sources. Be accurate and only use information from the provided context.")
	return b.String()
}

func truncateAuthors(authors []string) []string {
	if len(authors) > maxContextAuthors {
		return authors[:maxContextAuthors]
	}
	return authors
}
