package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 3; i++ {
		if code := do("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := do("10.0.0.1:5000"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 over limit, got %d", code)
	}

	// A different client has its own budget.
	if code := do("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("expected 200 for second client, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:43120"
	if got := clientIP(req); got != "192.168.1.9" {
		t.Errorf("expected port stripped, got %q", got)
	}

	req.RemoteAddr = "192.168.1.9"
	if got := clientIP(req); got != "192.168.1.9" {
		t.Errorf("expected bare address passthrough, got %q", got)
	}
}
