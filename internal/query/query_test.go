// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"
	"testing"

	"github.com/pdiddy/resynth/pkg/types"
)

// --- cleaning and classification ---

func TestCleanQuery(t *testing.T) {
	got := CleanQuery("  what   are\ttransformers?  ")
	if got != "what are transformers?" {
		t.Errorf("CleanQuery = %q", got)
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  types.Intent
	}{
		{"question word first", "What are transformers?", types.IntentQuestion},
		{"how question", "how does attention scale", types.IntentQuestion},
		{"comparison", "CNN versus transformer accuracy", types.IntentComparison},
		{"vs token", "BERT vs GPT", types.IntentComparison},
		{"summary", "overview of diffusion models", types.IntentSummary},
		{"method", "gradient descent algorithm details", types.IntentMethod},
		{"general", "transformer scaling laws", types.IntentGeneral},
		{"empty", "", types.IntentGeneral},
		// "vs" must match as a whole token, not as a substring.
		{"no substring match", "adversarial examples", types.IntentGeneral},
		// Question words win only in first position.
		{"question word mid-query", "papers about what transformers do", types.IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.query); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// --- key phrases ---

func TestKeyPhrases(t *testing.T) {
	p := heuristicPhraser{}

	phrases := p.KeyPhrases("what are transformer attention mechanisms in vision", 5)
	if len(phrases) == 0 {
		t.Fatal("expected phrases")
	}
	if phrases[0] != "transformer attention mechanisms" {
		t.Errorf("first phrase = %q", phrases[0])
	}
	for _, ph := range phrases {
		if n := len(strings.Fields(ph)); n > 4 {
			t.Errorf("phrase %q has %d words, max 4", ph, n)
		}
	}

	if got := p.KeyPhrases("anything", 0); got != nil {
		t.Errorf("max 0 should yield nil, got %v", got)
	}
}

// --- expansion ---

func TestExpandOriginalFirst(t *testing.T) {
	e := NewExpander()
	got := e.Expand("  transformer   models  ", 3)
	if len(got) == 0 {
		t.Fatal("expected expansions")
	}
	if got[0] != "transformer models" {
		t.Errorf("first variant = %q, want cleaned original", got[0])
	}
	if len(got) > 3 {
		t.Errorf("got %d variants, max 3", len(got))
	}
}

func TestExpandDeduplicates(t *testing.T) {
	e := NewExpander()
	got := e.Expand("graph neural networks", 6)

	seen := make(map[string]bool)
	for _, v := range got {
		key := strings.ToLower(v)
		if seen[key] {
			t.Errorf("duplicate variant %q", v)
		}
		seen[key] = true
	}
}

func TestExpandEmptyQuery(t *testing.T) {
	e := NewExpander()
	if got := e.Expand("   ", 3); got != nil {
		t.Errorf("expected nil for empty query, got %v", got)
	}
}

func TestExpandDeterministic(t *testing.T) {
	e := NewExpander()
	first := e.Expand("sparse attention patterns", 5)
	for i := 0; i < 10; i++ {
		again := e.Expand("sparse attention patterns", 5)
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d variants, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d variant %d = %q, want %q", i, j, again[j], first[j])
			}
		}
	}
}

// fixedPhraser returns a canned phrase list regardless of input.
type fixedPhraser struct{ phrases []string }

func (f fixedPhraser) KeyPhrases(string, int) []string { return f.phrases }

func TestExpandVariationsPerPhrase(t *testing.T) {
	e := NewExpanderWith(fixedPhraser{phrases: []string{"quantum computing"}})
	got := e.Expand("quantum computing hardware", 10)

	// Original, the phrase itself, and at most two templated variations.
	if len(got) != 4 {
		t.Fatalf("got %d variants, want 4: %v", len(got), got)
	}
	if got[1] != "quantum computing" {
		t.Errorf("variant 1 = %q", got[1])
	}
	if got[2] != "research on quantum computing" || got[3] != "quantum computing studies" {
		t.Errorf("templated variants = %q, %q", got[2], got[3])
	}
}

// --- search terms ---

func TestSearchTerms(t *testing.T) {
	e := NewExpander()
	terms := e.SearchTerms("What are the scaling laws for large language models?")

	if len(terms) == 0 {
		t.Fatal("expected search terms")
	}
	for _, term := range terms {
		for _, w := range strings.Fields(strings.ToLower(term)) {
			if stopwords[w] {
				t.Errorf("term %q contains stopword %q", term, w)
			}
		}
	}
	if len(terms) > maxSearchTerms {
		t.Errorf("got %d terms, max %d", len(terms), maxSearchTerms)
	}

	if got := e.SearchTerms(""); got != nil {
		t.Errorf("empty query should yield nil, got %v", got)
	}
}

// --- plan ---

func TestPlan(t *testing.T) {
	e := NewExpander()
	plan := e.Plan("What are transformers?", 3)

	if plan.Original != "What are transformers?" {
		t.Errorf("Original = %q", plan.Original)
	}
	if plan.Cleaned != "What are transformers?" {
		t.Errorf("Cleaned = %q", plan.Cleaned)
	}
	if plan.Intent != types.IntentQuestion {
		t.Errorf("Intent = %q, want question", plan.Intent)
	}
	if len(plan.Expansions) == 0 || len(plan.Expansions) > 3 {
		t.Errorf("Expansions = %v", plan.Expansions)
	}
}
