package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"rizzline-backend/internal/models"
)

const chatMaxTokens = 1024

const chatSystemPrompt = `你是一个专业的恋爱聊天回复助手，擅长高情商回复。

用户会给你对方发来的消息（文字或聊天截图），你需要根据指定的风格，生成恰好3条高情商回复建议。

如果用户上传了聊天截图，请仔细识别截图中的对话内容，理解对方说了什么，然后生成合适的回复。

回复要求：
1. 每条回复要自然、有趣、不油腻
2. 回复长度适中，像正常聊天一样
3. 要有层次感，3条回复从不同角度切入
4. 用编号格式输出：1️⃣ 2️⃣ 3️⃣
5. 直接给出回复内容，不要加解释

风格说明：
- 幽默型：用幽默感和机智化解，让对方忍不住笑
- 温柔型：温暖体贴，让对方感受到关心和在乎
- 直球型：直接表达心意，真诚不做作
- 文艺型：有文艺感和诗意，用优美的表达打动人心`

// styleLabels maps the request's style selector to its Chinese label.
// Unrecognized styles fall back to the humorous label.
var styleLabels = map[string]string{
	"humorous": "幽默型",
	"gentle":   "温柔型",
	"direct":   "直球型",
	"literary": "文艺型",
}

type streamingClient interface {
	Enabled() bool
	StreamGenerate(ctx context.Context, model, system string, parts []genai.Part, maxTokens int32) (TokenStream, error)
}

// ChatService proxies a chat request to the LLM as a token stream, falling
// back to a secondary model when the primary stream fails before producing
// any output.
type ChatService struct {
	llm      streamingClient
	primary  string
	fallback string
}

func NewChatService(llm streamingClient) *ChatService {
	return &ChatService{
		llm:      llm,
		primary:  PrimaryModel,
		fallback: FallbackModel,
	}
}

func (s *ChatService) Enabled() bool {
	return s.llm.Enabled()
}

// StreamReply forwards every provider token to emit, in order. The fallback
// model is attempted once, and only when the primary fails before its first
// token: the stream never restarts after output has been sent.
func (s *ChatService) StreamReply(ctx context.Context, req *models.ChatRequest, emit func(token string) error) error {
	parts := buildChatParts(req)

	started, err := s.relay(ctx, s.primary, parts, emit)
	if err != nil && !started {
		log.Printf("chat: primary model %s failed, trying %s: %v", s.primary, s.fallback, err)
		_, err = s.relay(ctx, s.fallback, parts, emit)
	}
	return err
}

func (s *ChatService) relay(ctx context.Context, model string, parts []genai.Part, emit func(string) error) (started bool, err error) {
	stream, err := s.llm.StreamGenerate(ctx, model, chatSystemPrompt, parts, chatMaxTokens)
	if err != nil {
		return false, err
	}

	for {
		token, err := stream.Next()
		if err == io.EOF {
			return started, nil
		}
		if err != nil {
			return started, err
		}
		if token == "" {
			continue
		}
		started = true
		if err := emit(token); err != nil {
			return started, err
		}
	}
}

// buildChatParts orders every attached image before a single trailing text
// block carrying the message, style instruction, and optional context.
func buildChatParts(req *models.ChatRequest) []genai.Part {
	var parts []genai.Part

	for _, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			log.Printf("chat: skipping undecodable image: %v", err)
			continue
		}
		format := strings.TrimPrefix(img.MediaType, "image/")
		if format == "" {
			format = "jpeg"
		}
		parts = append(parts, genai.ImageData(format, data))
	}

	styleLabel, ok := styleLabels[req.Style]
	if !ok {
		styleLabel = styleLabels["humorous"]
	}

	var text []string
	if msg := strings.TrimSpace(req.Message); msg != "" {
		text = append(text, fmt.Sprintf("对方发来的消息：「%s」", req.Message))
	}
	if len(req.Images) > 0 {
		text = append(text, "（请结合上面的聊天截图理解对方的意思）")
	}
	text = append(text, fmt.Sprintf("\n请用【%s】风格生成3条回复。", styleLabel))
	if req.Context != "" {
		text = append(text, fmt.Sprintf("\n聊天背景：%s", req.Context))
	}

	return append(parts, genai.Text(strings.Join(text, "\n")))
}
