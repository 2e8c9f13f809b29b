package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	// PrimaryModel handles both phrase generation and chat suggestions.
	PrimaryModel = "gemini-2.0-flash"
	// FallbackModel is attempted once when the primary chat stream fails to open.
	FallbackModel = "gemini-2.0-flash-lite"
)

// TokenStream yields text increments of a streaming completion.
// Next returns io.EOF when the provider stream is exhausted.
type TokenStream interface {
	Next() (string, error)
}

// LLMClient wraps the Gemini client. A client built without an API key is
// disabled: Enabled() is false and every call fails.
type LLMClient struct {
	client *genai.Client
}

func NewLLMClient(ctx context.Context, apiKey string) (*LLMClient, error) {
	if apiKey == "" {
		return &LLMClient{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMClient{client: client}, nil
}

func (c *LLMClient) Enabled() bool {
	return c.client != nil
}

func (c *LLMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Generate issues a one-shot completion and returns the full response text.
func (c *LLMClient) Generate(ctx context.Context, model, prompt string, maxTokens int32) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini API key not configured")
	}

	m := c.client.GenerativeModel(model)
	m.SetMaxOutputTokens(maxTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	return extractText(resp), nil
}

// StreamGenerate opens a streaming completion and returns its token stream.
func (c *LLMClient) StreamGenerate(ctx context.Context, model, system string, parts []genai.Part, maxTokens int32) (TokenStream, error) {
	if c.client == nil {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	m := c.client.GenerativeModel(model)
	m.SetMaxOutputTokens(maxTokens)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	return &genaiStream{it: m.GenerateContentStream(ctx, parts...)}, nil
}

type genaiStream struct {
	it *genai.GenerateContentResponseIterator
}

func (s *genaiStream) Next() (string, error) {
	resp, err := s.it.Next()
	if err == iterator.Done {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
