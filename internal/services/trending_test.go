package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestTrendingService(endpoints ...string) *TrendingService {
	return &TrendingService{
		http:      &http.Client{Timeout: 2 * time.Second},
		endpoints: endpoints,
	}
}

func TestFetchDigest_NestedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"realtime":[{"word":"话题一"},{"word":"话题二"}]}}`))
	}))
	defer srv.Close()

	digest := newTestTrendingService(srv.URL).FetchDigest(context.Background())

	if !strings.Contains(digest, "- 话题一") || !strings.Contains(digest, "- 话题二") {
		t.Errorf("digest missing topics: %q", digest)
	}
}

func TestFetchDigest_FlatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"name":"热搜一"},{"name":"热搜二"}]}`))
	}))
	defer srv.Close()

	digest := newTestTrendingService(srv.URL).FetchDigest(context.Background())

	if !strings.Contains(digest, "- 热搜一") {
		t.Errorf("digest missing topics: %q", digest)
	}
}

func TestFetchDigest_FirstEndpointWins(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"name":"第一个接口的话题"}]}`))
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("second endpoint should not be called when the first yields topics")
	}))
	defer second.Close()

	digest := newTestTrendingService(first.URL, second.URL).FetchDigest(context.Background())

	if !strings.Contains(digest, "第一个接口的话题") {
		t.Errorf("unexpected digest: %q", digest)
	}
}

func TestFetchDigest_FallsThroughFailures(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"name":"备用接口话题"}]}`))
	}))
	defer good.Close()

	digest := newTestTrendingService(bad.URL, good.URL).FetchDigest(context.Background())

	if !strings.Contains(digest, "备用接口话题") {
		t.Errorf("unexpected digest: %q", digest)
	}
}

func TestFetchDigest_AllFailuresYieldPlaceholder(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer bad.Close()

	digest := newTestTrendingService(bad.URL).FetchDigest(context.Background())

	if digest != trendingPlaceholder {
		t.Errorf("expected placeholder, got %q", digest)
	}
}

func TestParseTopics_CapsAtTen(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"data":{"realtime":[`)
	for i := 0; i < 15; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"word":"话题"}`)
	}
	b.WriteString(`]}}`)

	topics := parseTopics([]byte(b.String()))
	if len(topics) != 10 {
		t.Errorf("expected 10 topics, got %d", len(topics))
	}
}

func TestParseTopics_UnknownShape(t *testing.T) {
	topics := parseTopics([]byte(`{"items":["a","b"]}`))
	if len(topics) != 0 {
		t.Errorf("expected no topics, got %v", topics)
	}
}
