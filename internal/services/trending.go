package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// trendingPlaceholder tells the model to create freely when no
	// topics could be fetched.
	trendingPlaceholder = "（未获取到热点，请根据当前季节和日期自由创作）"

	trendingCacheKey = "trending:digest"
	trendingCacheTTL = time.Hour
	maxTopics        = 10
)

// defaultTrendingEndpoints are public trending-topic APIs, tried in order.
// Failures are expected and never propagate.
var defaultTrendingEndpoints = []string{
	"https://weibo.com/ajax/side/hotSearch",
	"https://tenapi.cn/v2/baiduhot",
}

// TrendingService fetches a short digest of current trending topics used
// to seed generator prompts.
type TrendingService struct {
	http      *http.Client
	cache     *redis.Client
	endpoints []string
}

func NewTrendingService(cache *redis.Client) *TrendingService {
	return &TrendingService{
		http:      &http.Client{Timeout: 10 * time.Second},
		cache:     cache,
		endpoints: defaultTrendingEndpoints,
	}
}

// FetchDigest returns a "- topic" line per trending topic, at most ten, from
// the first endpoint that yields any. All endpoints failing yields a fixed
// placeholder. Never returns an error.
func (s *TrendingService) FetchDigest(ctx context.Context) string {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, trendingCacheKey).Result(); err == nil && cached != "" {
			return cached
		}
	}

	var topics []string
	for _, url := range s.endpoints {
		topics = s.fetchTopics(ctx, url)
		if len(topics) > 0 {
			break
		}
	}

	if len(topics) == 0 {
		return trendingPlaceholder
	}

	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	digest := strings.TrimRight(b.String(), "\n")

	if s.cache != nil {
		if err := s.cache.Set(ctx, trendingCacheKey, digest, trendingCacheTTL).Err(); err != nil {
			log.Printf("trending: failed to cache digest: %v", err)
		}
	}

	return digest
}

func (s *TrendingService) fetchTopics(ctx context.Context, url string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		log.Printf("trending: failed to fetch from %s: %v", url, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	return parseTopics(body)
}

// parseTopics understands two response shapes: the nested
// {"data":{"realtime":[{"word":…}]}} one and the flat
// {"data":[{"name":…}]} one.
func parseTopics(body []byte) []string {
	var topics []string

	var nested struct {
		Data struct {
			Realtime []struct {
				Word string `json:"word"`
			} `json:"realtime"`
		} `json:"data"`
	}
	if json.Unmarshal(body, &nested) == nil {
		for _, item := range nested.Data.Realtime {
			if item.Word != "" {
				topics = append(topics, item.Word)
			}
			if len(topics) == maxTopics {
				return topics
			}
		}
	}
	if len(topics) > 0 {
		return topics
	}

	var flat struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if json.Unmarshal(body, &flat) == nil {
		for _, item := range flat.Data {
			if item.Name != "" {
				topics = append(topics, item.Name)
			}
			if len(topics) == maxTopics {
				break
			}
		}
	}

	return topics
}
