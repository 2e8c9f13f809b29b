package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestJobsTrigger(t *testing.T) {
	ran := make(chan string, 1)

	h := NewJobsHandler()
	h.Register("generate", func(ctx context.Context) { ran <- "generate" })

	r := chi.NewRouter()
	r.Post("/api/admin/jobs/{name}", h.Trigger)

	t.Run("known job starts in background", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/jobs/generate", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rr.Code)
		}

		select {
		case name := <-ran:
			if name != "generate" {
				t.Errorf("unexpected job ran: %q", name)
			}
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	})

	t.Run("unknown job is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/jobs/nonsense", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})
}
