package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"rizzline-backend/internal/models"
)

type fakeWriter struct {
	saved []models.PhraseCandidate
	err   error
}

func (f *fakeWriter) SaveNew(ctx context.Context, candidates []models.PhraseCandidate) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, candidates...)
	return len(candidates), nil
}

type fakeTrends struct {
	digest string
}

func (f *fakeTrends) FetchDigest(ctx context.Context) string {
	return f.digest
}

type fakeCompletion struct {
	enabled   bool
	resp      string
	err       error
	gotPrompt string
	calls     int
}

func (f *fakeCompletion) Enabled() bool { return f.enabled }

func (f *fakeCompletion) Generate(ctx context.Context, model, prompt string, maxTokens int32) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.resp, f.err
}

func newTestGenerator(llm *fakeCompletion, store *fakeWriter) *GeneratorService {
	return NewGeneratorService(llm, store, &fakeTrends{digest: "- 测试热点"}, rand.New(rand.NewSource(1)))
}

const validContent = "遇见你是我今年做过最浪漫的一件事情"

func TestGeneratePhrases_SkipsWithoutCredential(t *testing.T) {
	llm := &fakeCompletion{enabled: false}
	store := &fakeWriter{}

	newTestGenerator(llm, store).GeneratePhrases(context.Background())

	if llm.calls != 0 {
		t.Error("expected no LLM call without a credential")
	}
	if len(store.saved) != 0 {
		t.Errorf("expected no saves, got %d", len(store.saved))
	}
}

func TestGeneratePhrases_SavesParsedPhrases(t *testing.T) {
	llm := &fakeCompletion{
		enabled: true,
		resp:    fmt.Sprintf("```json\n[{\"content\":\"%s\",\"category\":\"高甜语录\",\"tags\":\"甜\"}]\n```", validContent),
	}
	store := &fakeWriter{}

	newTestGenerator(llm, store).GeneratePhrases(context.Background())

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 saved phrase, got %d", len(store.saved))
	}
	if store.saved[0].Content != validContent {
		t.Errorf("unexpected content: %q", store.saved[0].Content)
	}
	if store.saved[0].Category != "高甜语录" {
		t.Errorf("unexpected category: %q", store.saved[0].Category)
	}
}

func TestGeneratePhrases_FiltersLengthAndCategory(t *testing.T) {
	llm := &fakeCompletion{
		enabled: true,
		resp: fmt.Sprintf(`[
			{"content":"太短了","category":"高甜语录","tags":""},
			{"content":"%s","category":"","tags":""},
			{"content":"%s","category":"土味情话","tags":""},
			{"content":"%s","category":"高甜语录","tags":""}
		]`, validContent, strings.Repeat("长", 81), validContent),
	}
	store := &fakeWriter{}

	newTestGenerator(llm, store).GeneratePhrases(context.Background())

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 surviving phrase, got %d", len(store.saved))
	}
}

func TestGeneratePhrases_AbortsOnNonArray(t *testing.T) {
	llm := &fakeCompletion{enabled: true, resp: `{"content":"不是数组"}`}
	store := &fakeWriter{}

	newTestGenerator(llm, store).GeneratePhrases(context.Background())

	if len(store.saved) != 0 {
		t.Errorf("expected no saves for non-array response, got %d", len(store.saved))
	}
}

func TestGeneratePhrases_SwallowsAPIError(t *testing.T) {
	llm := &fakeCompletion{enabled: true, err: fmt.Errorf("gemini API error")}
	store := &fakeWriter{}

	newTestGenerator(llm, store).GeneratePhrases(context.Background())

	if len(store.saved) != 0 {
		t.Errorf("expected no saves after API error, got %d", len(store.saved))
	}
}

func TestGeneratePhrases_PromptEmbedsContext(t *testing.T) {
	llm := &fakeCompletion{enabled: true, resp: "[]"}
	store := &fakeWriter{}

	g := newTestGenerator(llm, store)
	g.now = func() time.Time {
		return time.Date(2025, 2, 14, 8, 0, 0, 0, time.UTC)
	}
	g.GeneratePhrases(context.Background())

	for _, want := range []string{"- 测试热点", "2025-02-14", "冬季", "情人节"} {
		if !strings.Contains(llm.gotPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildGeneratorPrompt_NoHolidayLine(t *testing.T) {
	prompt := buildGeneratorPrompt("- 热点", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), []string{"开场白"}, 3)

	if strings.Contains(prompt, "今天是") && strings.Contains(prompt, "节日氛围") {
		t.Errorf("prompt should not carry a holiday line on an ordinary day")
	}
	if !strings.Contains(prompt, "春季") {
		t.Errorf("prompt missing season")
	}
}

func TestSampleCategories_DistinctAndBounded(t *testing.T) {
	g := newTestGenerator(&fakeCompletion{enabled: true}, &fakeWriter{})

	for i := 0; i < 20; i++ {
		cats := g.sampleCategories()
		if len(cats) < 3 || len(cats) > 4 {
			t.Fatalf("expected 3-4 categories, got %d", len(cats))
		}
		seen := map[string]bool{}
		for _, c := range cats {
			if seen[c] {
				t.Fatalf("duplicate category %q", c)
			}
			seen[c] = true
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"json fence", "```json\n[1]\n```", "[1]"},
		{"bare fence", "```\n[1]\n```", "[1]"},
		{"no fence", "[1]", "[1]"},
		{"leading whitespace", "  \n```json\n[1]\n```\n", "[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.raw); got != tc.expected {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.raw, got, tc.expected)
			}
		})
	}
}
