// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import "github.com/pdiddy/resynth/pkg/types"

// Quality thresholds for retrieval diagnostics.
const (
	minAverageSimilarity = 0.7
	minResultSimilarity  = 0.5
	minDiversity         = 0.3
)

// Issue strings flagged by ValidateQuality.
const (
	issueLowAverage   = "low average similarity"
	issueVeryLow      = "very low similarity present"
	issueLowDiversity = "low diversity"
)

// ValidateQuality computes quality diagnostics for the results of a query:
// average and minimum similarity, and the diversity score (unique papers /
// result count). The query is echoed in the report; it does not affect the
// metrics. The report is valid only when no issue is flagged; an empty
// result set is always invalid.
func ValidateQuality(query string, results []types.RetrievalResult) types.QualityReport {
	if len(results) == 0 {
		return types.QualityReport{
			Query:  query,
			Valid:  false,
			Reason: "no results",
			Suggestions: []string{
				"try a more general query",
				"check that papers are indexed",
			},
		}
	}

	var sum float64
	min := results[0].Similarity
	papers := make(map[string]bool)
	for _, res := range results {
		sum += res.Similarity
		if res.Similarity < min {
			min = res.Similarity
		}
		papers[res.Metadata.PaperTitle] = true
	}

	report := types.QualityReport{
		Query:             query,
		AverageSimilarity: sum / float64(len(results)),
		MinSimilarity:     min,
		DiversityScore:    float64(len(papers)) / float64(len(results)),
		UniquePapers:      len(papers),
		TotalResults:      len(results),
	}

	if report.AverageSimilarity < minAverageSimilarity {
		report.Issues = append(report.Issues, issueLowAverage)
	}
	if report.MinSimilarity < minResultSimilarity {
		report.Issues = append(report.Issues, issueVeryLow)
	}
	if report.DiversityScore < minDiversity {
		report.Issues = append(report.Issues, issueLowDiversity)
	}

	report.Valid = len(report.Issues) == 0
	report.Suggestions = suggestionsFor(report.Issues)
	return report
}

// suggestionsFor maps flagged issues to canned remediation advice:
// similarity issues ask for more specific terms, diversity issues for
// broader ones.
func suggestionsFor(issues []string) []string {
	var out []string
	similarity, diversity := false, false
	for _, issue := range issues {
		switch issue {
		case issueLowAverage, issueVeryLow:
			similarity = true
		case issueLowDiversity:
			diversity = true
		}
	}
	if similarity {
		out = append(out,
			"try more specific keywords",
			"use technical terms from the field")
	}
	if diversity {
		out = append(out,
			"try broader search terms",
			"include multiple related concepts")
	}
	if len(out) == 0 {
		out = append(out, "results look good")
	}
	return out
}
