package models

// ImageContent is one attached screenshot, base64 encoded without the data: prefix.
type ImageContent struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

// ChatRequest is the payload sent to the chat suggestion endpoint. Not persisted.
type ChatRequest struct {
	Message string         `json:"message"`
	Style   string         `json:"style"`
	Context string         `json:"context,omitempty"`
	Images  []ImageContent `json:"images,omitempty"`
}

// ChatStreamEvent is a single SSE payload: either a content token or an error.
type ChatStreamEvent struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}
