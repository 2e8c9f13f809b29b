package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"rizzline-backend/internal/models"
)

type chatStreamer interface {
	Enabled() bool
	StreamReply(ctx context.Context, req *models.ChatRequest, emit func(token string) error) error
}

type ChatHandler struct {
	chat chatStreamer
}

func NewChatHandler(chat chatStreamer) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Suggest streams reply suggestions as SSE: one {"content":…} event per
// provider token, terminated by a [DONE] sentinel, or a single {"error":…}
// event with no sentinel.
func (h *ChatHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// Configuration absence is an HTTP-level failure, before streaming starts.
	if !h.chat.Enabled() {
		writeJSON(w, http.StatusInternalServerError, errorResp("CONFIG_ERROR", "Gemini API key not configured", r))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Streaming unsupported", r))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if strings.TrimSpace(req.Message) == "" && len(req.Images) == 0 {
		sendEvent(w, flusher, models.ChatStreamEvent{Error: "请输入文字或上传截图"})
		return
	}

	err := h.chat.StreamReply(r.Context(), &req, func(token string) error {
		sendEvent(w, flusher, models.ChatStreamEvent{Content: token})
		return nil
	})
	if err != nil {
		sendEvent(w, flusher, models.ChatStreamEvent{Error: err.Error()})
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event models.ChatStreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("chat: failed to marshal SSE event: %v", err)
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
