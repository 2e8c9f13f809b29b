package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rizzline-backend/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	categoriesCacheKey = "phrases:categories"
	categoriesCacheTTL = 5 * time.Minute
)

type phraseStore interface {
	List(ctx context.Context, category, search string, limit, offset int) ([]*models.Phrase, error)
	Random(ctx context.Context, category string) (*models.Phrase, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
}

type PhraseHandler struct {
	store phraseStore
	cache *redis.Client
}

func NewPhraseHandler(store phraseStore, cache *redis.Client) *PhraseHandler {
	return &PhraseHandler{store: store, cache: cache}
}

// List returns phrases newest-first with optional category and substring
// filters. Pagination bounds are rejected before any query runs.
func (h *PhraseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be between 1 and 100", r))
			return
		}
		limit = n
	}

	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "offset must be non-negative", r))
			return
		}
		offset = n
	}

	phrases, err := h.store.List(r.Context(), q.Get("category"), q.Get("search"), limit, offset)
	if err != nil {
		log.Printf("phrases: list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list phrases", r))
		return
	}

	writeJSON(w, http.StatusOK, phrases)
}

// Random picks one phrase uniformly, optionally within a category.
func (h *PhraseHandler) Random(w http.ResponseWriter, r *http.Request) {
	phrase, err := h.store.Random(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		log.Printf("phrases: random pick failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to pick phrase", r))
		return
	}
	if phrase == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No phrases found", r))
		return
	}

	writeJSON(w, http.StatusOK, phrase)
}

// Categories returns the category summary ordered by count descending,
// served from cache when fresh.
func (h *PhraseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), categoriesCacheKey).Result(); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	counts, err := h.store.Categories(r.Context())
	if err != nil {
		log.Printf("phrases: category summary failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load categories", r))
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			if err := h.cache.Set(r.Context(), categoriesCacheKey, data, categoriesCacheTTL).Err(); err != nil {
				log.Printf("phrases: failed to cache categories: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, counts)
}
