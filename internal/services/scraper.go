package services

import (
	"context"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"rizzline-backend/internal/models"
)

// ScrapeSource is one public phrase page with the CSS selector that
// locates its text nodes.
type ScrapeSource struct {
	URL      string
	Selector string
	Name     string
}

// defaultScrapeSources are static HTML pages that are easy to parse.
var defaultScrapeSources = []ScrapeSource{
	{
		URL:      "https://www.lz13.cn/jingdianyulu/qinghua.html",
		Selector: "div.content p, div.content li, div.article p",
		Name:     "励志一生-情话",
	},
	{
		URL:      "https://www.gexings.com/qinghua/",
		Selector: "div.list ul li a, div.content p",
		Name:     "个性说-情话",
	},
	{
		URL:      "https://www.duanwenxue.com/article/qinghua/",
		Selector: "div.list-box li a, div.content p",
		Name:     "短文学-情话",
	},
}

const scrapedTag = "爬取"

// ScraperService pulls candidate phrases out of one randomly chosen
// public page per run.
type ScraperService struct {
	http    *http.Client
	store   phraseWriter
	rand    *rand.Rand
	sources []ScrapeSource
}

func NewScraperService(store phraseWriter, rnd *rand.Rand) *ScraperService {
	return &ScraperService{
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		rand:    rnd,
		sources: defaultScrapeSources,
	}
}

// ScrapePhrases is the job entry point. It never returns an error:
// every failure is logged and swallowed.
func (s *ScraperService) ScrapePhrases(ctx context.Context) {
	source := s.sources[s.rand.Intn(len(s.sources))]
	log.Printf("scraper: scraping from %s", source.Name)

	candidates, err := s.fetchCandidates(ctx, source)
	if err != nil {
		log.Printf("scraper: error from %s: %v", source.Name, err)
		return
	}
	if len(candidates) == 0 {
		log.Printf("scraper: no valid phrases found from %s", source.Name)
		return
	}

	selected := s.samplePhrases(candidates)

	added, err := s.store.SaveNew(ctx, selected)
	if err != nil {
		log.Printf("scraper: failed to save phrases: %v", err)
		return
	}
	log.Printf("scraper: %d new phrases added (from %d scraped)", added, len(selected))
}

func (s *ScraperService) fetchCandidates(ctx context.Context, source ScrapeSource) ([]models.PhraseCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("scraper: got status %d from %s", resp.StatusCode, source.URL)
		return nil, nil
	}

	// Older Chinese sites still serve GBK-family encodings.
	var body io.Reader = resp.Body
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "gbk") || strings.Contains(contentType, "gb2312") {
		body = transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder())
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var candidates []models.PhraseCandidate
	doc.Find(source.Selector).Each(func(_ int, sel *goquery.Selection) {
		text := CleanScraped(sel.Text())
		if !IsValid(text) {
			return
		}
		candidates = append(candidates, models.PhraseCandidate{
			Content:  text,
			Category: Classify(text),
			Tags:     scrapedTag,
		})
	})

	return candidates, nil
}

// samplePhrases picks 5-10 random candidates, or all of them if fewer exist.
func (s *ScraperService) samplePhrases(candidates []models.PhraseCandidate) []models.PhraseCandidate {
	k := 5 + s.rand.Intn(6)
	if k >= len(candidates) {
		return candidates
	}

	picked := make([]models.PhraseCandidate, len(candidates))
	copy(picked, candidates)
	s.rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:k]
}
