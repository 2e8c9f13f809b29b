package models

import "time"

// Phrase is a single persisted conversational suggestion.
type Phrase struct {
	ID           int64     `json:"id"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         string    `json:"tags"`
	IsPickupLine bool      `json:"is_pickup_line"`
	CreatedAt    time.Time `json:"created_at"`
}

// PhraseCandidate is an unvalidated phrase produced by the generator,
// the scraper, or the AI response parser before it reaches the store.
type PhraseCandidate struct {
	Content      string `json:"content"`
	Category     string `json:"category"`
	Tags         string `json:"tags"`
	IsPickupLine bool   `json:"is_pickup_line"`
}

// CategoryCount is one row of the category summary.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
