package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"rizzline-backend/internal/handlers"
	"rizzline-backend/internal/middleware"
)

func New(
	phraseHandler *handlers.PhraseHandler,
	chatHandler *handlers.ChatHandler,
	jobsHandler *handlers.JobsHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// The chat endpoint fans out to the LLM provider; keep it rate limited.
	chatLimiter := middleware.NewRateLimiter(20, time.Minute)
	jobsLimiter := middleware.NewRateLimiter(5, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/phrases", func(r chi.Router) {
			r.Get("/", phraseHandler.List)
			r.Get("/random", phraseHandler.Random)
			r.Get("/categories", phraseHandler.Categories)
		})

		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Suggest)
		})

		r.Route("/admin/jobs", func(r chi.Router) {
			r.Use(jobsLimiter.Middleware)
			r.Post("/{name}", jobsHandler.Trigger)
		})
	})

	return r
}
