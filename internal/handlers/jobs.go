package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// JobsHandler triggers the agent jobs on demand, outside their daily schedule.
type JobsHandler struct {
	jobs map[string]func(ctx context.Context)
}

func NewJobsHandler() *JobsHandler {
	return &JobsHandler{jobs: make(map[string]func(ctx context.Context))}
}

func (h *JobsHandler) Register(name string, run func(ctx context.Context)) {
	h.jobs[name] = run
}

// Trigger starts the named job in the background and returns immediately.
func (h *JobsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	run, ok := h.jobs[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unknown job", r))
		return
	}

	go run(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "job": name})
}
