package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"rizzline-backend/internal/models"
)

type phraseWriter interface {
	SaveNew(ctx context.Context, candidates []models.PhraseCandidate) (int, error)
}

type trendSource interface {
	FetchDigest(ctx context.Context) string
}

type completionClient interface {
	Enabled() bool
	Generate(ctx context.Context, model, prompt string, maxTokens int32) (string, error)
}

// GeneratorService produces fresh phrases with one LLM call per run,
// seeded with current trending topics, the date, season, and holidays.
type GeneratorService struct {
	llm    completionClient
	store  phraseWriter
	trends trendSource
	rand   *rand.Rand
	now    func() time.Time
}

func NewGeneratorService(llm completionClient, store phraseWriter, trends trendSource, rnd *rand.Rand) *GeneratorService {
	return &GeneratorService{
		llm:    llm,
		store:  store,
		trends: trends,
		rand:   rnd,
		now:    time.Now,
	}
}

// GeneratePhrases is the job entry point. It never returns an error:
// every failure is logged and swallowed.
func (g *GeneratorService) GeneratePhrases(ctx context.Context) {
	if !g.llm.Enabled() {
		log.Println("generator: GEMINI_API_KEY not set, skipping phrase generation")
		return
	}

	log.Println("generator: starting AI phrase generation job")
	now := g.now()

	categories := g.sampleCategories()
	perCategory := 3 + g.rand.Intn(2)

	trending := g.trends.FetchDigest(ctx)
	prompt := buildGeneratorPrompt(trending, now, categories, perCategory)

	raw, err := g.llm.Generate(ctx, PrimaryModel, prompt, 2048)
	if err != nil {
		log.Printf("generator: %v", err)
		return
	}

	raw = stripCodeFence(raw)

	var candidates []models.PhraseCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		log.Printf("generator: failed to parse response as JSON array: %v", err)
		return
	}

	// Narrow inline check: length bound and a non-empty category only.
	// AI output skips the full scraped-text validation on purpose.
	valid := make([]models.PhraseCandidate, 0, len(candidates))
	for _, c := range candidates {
		content := strings.TrimSpace(c.Content)
		n := utf8.RuneCountInString(content)
		if n >= 15 && n <= 80 && c.Category != "" {
			c.Content = content
			valid = append(valid, c)
		}
	}

	added, err := g.store.SaveNew(ctx, valid)
	if err != nil {
		log.Printf("generator: failed to save phrases: %v", err)
		return
	}
	log.Printf("generator: %d new phrases added (from %d generated)", added, len(valid))
}

// sampleCategories picks 3-4 distinct categories uniformly at random.
func (g *GeneratorService) sampleCategories() []string {
	pool := make([]string, len(AllCategories))
	copy(pool, AllCategories)
	g.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	k := 3 + g.rand.Intn(2)
	if k > len(pool) {
		k = len(pool)
	}
	return pool[:k]
}

func buildGeneratorPrompt(trending string, date time.Time, categories []string, perCategory int) string {
	holidayLine := ""
	if holiday := HolidayHint(date); holiday != "" {
		holidayLine = fmt.Sprintf("今天是%s，请结合节日氛围创作。", holiday)
	}

	return fmt.Sprintf(`你是一个话术创作专家。先参考以下当前社交媒体热点，然后为指定分类各生成%d条全新话术。

当前热点（来自社交媒体）：
%s

要求：
1. 结合热点创作，但不要直接抄袭
2. 自然有趣不油腻，适合微信社交场景，性别中立
3. 每条 15-80 字
今天：%s，季节：%s季。%s
分类：%s
返回纯JSON数组（不要markdown代码块）: [{"content":"...","category":"...","tags":"tag1,tag2"}]`,
		perCategory,
		trending,
		date.Format("2006-01-02"),
		Season(date.Month()),
		holidayLine,
		strings.Join(categories, ", "))
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
