// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/resynth/pkg/types"
)

// --- mock completer ---

type mockCompleter struct {
	reply   string
	err     error
	calls   int
	lastSys string
	lastUsr string
}

func (m *mockCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.lastSys = systemPrompt
	m.lastUsr = userPrompt
	return m.reply, m.err
}

func result(title, text string, sim float64) types.RetrievalResult {
	return types.RetrievalResult{
		ChunkID:    title + "_chunk",
		Text:       text,
		Similarity: sim,
		Metadata: types.ChunkMetadata{
			PaperTitle:   title,
			PaperAuthors: []string{"Hinton", "LeCun", "Bengio", "Schmidhuber"},
			Published:    "2015-05-28",
		},
	}
}

// --- no results ---

func TestSynthesizeNoResults(t *testing.T) {
	s := NewSynthesizer(nil, types.StyleNumeric)
	answer := s.Synthesize(context.Background(), "anything", nil, types.IntentQuestion)

	if answer.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0", answer.Confidence)
	}
	if !strings.Contains(answer.Answer, "couldn't find relevant information") {
		t.Errorf("Answer = %q", answer.Answer)
	}
	if answer.ID == "" {
		t.Error("answer ID not assigned")
	}
	if len(answer.Citations) != 0 || answer.Bibliography != "" {
		t.Error("empty result set should produce no citations")
	}
	if answer.Intent != types.IntentQuestion {
		t.Errorf("Intent = %q", answer.Intent)
	}
}

// --- LLM path ---

func TestSynthesizeWithCompleter(t *testing.T) {
	draft := "Deep learning stacks multiple representation layers to learn features."
	m := &mockCompleter{reply: draft}
	s := NewSynthesizer(m, types.StyleNumeric)

	results := []types.RetrievalResult{
		result("Deep Learning", "deep learning stacks multiple representation layers to learn features", 0.9),
	}
	answer := s.Synthesize(context.Background(), "what is deep learning", results, types.IntentQuestion)

	if m.calls != 1 {
		t.Fatalf("completer called %d times", m.calls)
	}
	if !strings.Contains(answer.Answer, "[1]") {
		t.Errorf("answer not cited: %q", answer.Answer)
	}
	if !strings.Contains(answer.Bibliography, "## References") {
		t.Errorf("bibliography missing: %q", answer.Bibliography)
	}
	if answer.Confidence <= 0 || answer.Confidence > 1 {
		t.Errorf("Confidence = %v", answer.Confidence)
	}
	if len(answer.SourceChunks) != 1 {
		t.Errorf("SourceChunks = %d", len(answer.SourceChunks))
	}
}

func TestSynthesizePromptContents(t *testing.T) {
	m := &mockCompleter{reply: "reply"}
	s := NewSynthesizer(m, types.StyleNumeric)

	results := []types.RetrievalResult{
		result("Deep Learning", "representation learning discovers features automatically", 0.92),
	}
	s.Synthesize(context.Background(), "what is representation learning", results, types.IntentQuestion)

	if !strings.Contains(m.lastUsr, "Source 1: Deep Learning") {
		t.Errorf("user prompt missing source header:\n%s", m.lastUsr)
	}
	if !strings.Contains(m.lastUsr, "et al.") {
		t.Errorf("long author list not truncated:\n%s", m.lastUsr)
	}
	if !strings.Contains(m.lastUsr, "Similarity Score: 0.920") {
		t.Errorf("similarity missing:\n%s", m.lastUsr)
	}
	if !strings.Contains(m.lastSys, "direct, specific answers") {
		t.Errorf("system prompt not question-shaped:\n%s", m.lastSys)
	}
}

func TestSynthesizeIntentPrompts(t *testing.T) {
	tests := []struct {
		intent types.Intent
		want   string
	}{
		{types.IntentQuestion, "direct, specific answers"},
		{types.IntentComparison, "similarities and differences"},
		{types.IntentSummary, "comprehensive overview"},
		{types.IntentMethod, "techniques, procedures"},
		{types.IntentGeneral, "comprehensive and informative"},
	}
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			got := systemPrompt(tt.intent)
			if !strings.Contains(got, tt.want) {
				t.Errorf("systemPrompt(%s) missing %q", tt.intent, tt.want)
			}
			if !strings.Contains(got, "research assistant") {
				t.Error("base prompt missing")
			}
		})
	}
}

// --- extractive fallback ---

func TestSynthesizeFallbackOnCompleterError(t *testing.T) {
	m := &mockCompleter{err: errors.New("model offline")}
	s := NewSynthesizer(m, types.StyleNumeric)

	results := []types.RetrievalResult{
		result("Deep Learning", "Deep networks with 152 layers won the 2015 competition decisively. Short.", 0.9),
	}
	answer := s.Synthesize(context.Background(), "how deep are networks", results, types.IntentQuestion)

	if m.calls != 1 {
		t.Fatalf("completer called %d times", m.calls)
	}
	if !strings.Contains(answer.Answer, "here's the answer to your question") {
		t.Errorf("fallback lead missing: %q", answer.Answer)
	}
	if !strings.Contains(answer.Answer, "152 layers") {
		t.Errorf("key sentence missing: %q", answer.Answer)
	}
	if answer.Confidence <= 0 {
		t.Errorf("Confidence = %v", answer.Confidence)
	}
}

func TestSynthesizeWithoutCompleter(t *testing.T) {
	s := NewSynthesizer(nil, types.StyleNumeric)
	results := []types.RetrievalResult{
		result("Paper A", "Gradient clipping stabilizes training when loss spikes beyond expected bounds", 0.8),
	}
	answer := s.Synthesize(context.Background(), "training stability", results, types.IntentGeneral)
	if !strings.Contains(answer.Answer, "Based on the research papers:") {
		t.Errorf("lead line missing: %q", answer.Answer)
	}
}

func TestKeyPoints(t *testing.T) {
	text := "Tiny. The model reached 98 percent. " +
		"A sentence that is quite long and carries substantial descriptive content indeed. " +
		"Another numeric fact is 42 here. Yet another number 7 appears. And one more with 99 inside."
	points := keyPoints(text)
	if len(points) != maxKeyPoints {
		t.Fatalf("got %d points, want %d: %v", len(points), maxKeyPoints, points)
	}
	for _, p := range points {
		if len(p) <= 20 {
			t.Errorf("short sentence kept: %q", p)
		}
	}
}

func TestExtractiveDraftSummaryDedups(t *testing.T) {
	shared := "The shared finding repeats across papers with value 123 attached"
	results := []types.RetrievalResult{
		result("Paper A", shared+".", 0.9),
		result("Paper B", shared+".", 0.8),
	}
	draft := extractiveDraft("q", results, types.IntentSummary)
	if got := strings.Count(draft, "123"); got != 1 {
		t.Errorf("shared point appears %d times, want 1:\n%s", got, draft)
	}
	if !strings.Contains(draft, "Summary of key findings:") {
		t.Errorf("summary lead missing:\n%s", draft)
	}
}

// --- confidence ---

func TestConfidence(t *testing.T) {
	long := strings.Repeat("a", 500)

	tests := []struct {
		name    string
		results []types.RetrievalResult
		answer  string
		want    float64
	}{
		{"empty results", nil, "text", 0},
		{"empty answer", []types.RetrievalResult{{Similarity: 0.9}}, "", 0},
		{
			"full marks",
			[]types.RetrievalResult{
				{Similarity: 1.0}, {Similarity: 1.0}, {Similarity: 1.0},
				{Similarity: 1.0}, {Similarity: 1.0},
			},
			long,
			1.0,
		},
		{
			"single mid result",
			[]types.RetrievalResult{{Similarity: 0.8}},
			long,
			0.8*0.5 + 0.2*0.3 + 0.2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidence(tt.results, tt.answer)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("confidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeUniqueIDs(t *testing.T) {
	s := NewSynthesizer(nil, types.StyleNumeric)
	a := s.Synthesize(context.Background(), "q", nil, types.IntentGeneral)
	b := s.Synthesize(context.Background(), "q", nil, types.IntentGeneral)
	if a.ID == b.ID {
		t.Errorf("answer IDs not unique: %s", a.ID)
	}
}
