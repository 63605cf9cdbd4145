// Package perplexity holds the wire types and fixed prompt material for the
// Perplexity chat completions API.
package perplexity

import (
	"fmt"
	"strings"
)

const (
	DefaultAPIRoot      = "https://api.perplexity.ai"
	ChatCompletionsPath = "/chat/completions"

	Model = "llama-3-8b-instruct"

	SystemPrompt = "You are a helpful assistant that provides concise and insightful analysis based on business logic principles."
)

// perspectives are the viewpoints requested in structured mode, in order.
var perspectives = []string{"法學家視角", "經濟學家視角", "商人視角"}

// StructuredSuffix is appended to the user prompt in structured mode. It
// asks for a JSON array of exactly one {perspective, analysis} object per
// entry in perspectives.
var StructuredSuffix = structuredSuffix(perspectives)

func structuredSuffix(views []string) string {
	items := make([]string, len(views))
	for i, v := range views {
		items[i] = fmt.Sprintf(`{"perspective": "%s", "analysis": "分析內容"}`, v)
	}
	return "\n\n請嚴格按照以下JSON格式返回，不要包含任何額外的解釋或文字:\n[" + strings.Join(items, ", ") + "]"
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for /chat/completions.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// UserContent returns the user message text for a prompt.
func UserContent(prompt string, structured bool) string {
	if structured {
		return prompt + StructuredSuffix
	}
	return prompt
}

// NewChatRequest builds the upstream payload: the fixed system prompt followed
// by the user content.
func NewChatRequest(prompt string, structured bool) ChatRequest {
	return ChatRequest{
		Model: Model,
		Messages: []Message{
			{Role: RoleSystem, Content: SystemPrompt},
			{Role: RoleUser, Content: UserContent(prompt, structured)},
		},
	}
}
