package llm

import (
	"fmt"

	"github.com/alantheprice/recode/pkg/prompts"
)

// TokenUsage represents token usage reported by a model response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// responseFormat selects the response encoding for OpenAI-compatible APIs.
type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest represents a request to OpenAI-compatible APIs.
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []prompts.Message `json:"messages"`
	Temperature    float64           `json:"temperature"`
	TopP           float64           `json:"top_p,omitempty"`
	Stream         bool              `json:"stream"`
	ResponseFormat *responseFormat   `json:"response_format,omitempty"`
}

// chatResponse represents a non-streaming response from OpenAI-compatible APIs.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

// GetMessageText extracts text content from a message. Content is interface{}
// to match the wire format; anything that is not a string is formatted with %v.
func GetMessageText(content interface{}) string {
	if s, ok := content.(string); ok {
		return s
	}
	if content == nil {
		return ""
	}
	return fmt.Sprintf("%v", content)
}
