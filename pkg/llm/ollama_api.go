package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alantheprice/recode/pkg/config"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"
	ollama "github.com/ollama/ollama/api"
)

func ollamaClient(cfg *config.Config) (*ollama.Client, error) {
	if cfg.OllamaServerURL != "" {
		base, err := url.Parse(cfg.OllamaServerURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama server URL %q: %w", cfg.OllamaServerURL, err)
		}
		return ollama.NewClient(base, http.DefaultClient), nil
	}
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return client, nil
}

func callOllama(modelName string, messages []prompts.Message, cfg *config.Config, timeout time.Duration, jsonMode bool) (string, *TokenUsage, error) {
	client, err := ollamaClient(cfg)
	if err != nil {
		return "", nil, err
	}

	ollamaMessages := make([]ollama.Message, len(messages))
	totalTokens := 0
	for i, msg := range messages {
		text := GetMessageText(msg.Content)
		ollamaMessages[i] = ollama.Message{
			Role:    msg.Role,
			Content: text,
		}
		totalTokens += utils.EstimateTokens(text)
	}

	// The model name arrives without the "ollama:" prefix, but tolerate it.
	actualModelName := strings.TrimPrefix(modelName, "ollama:")

	// Set num_ctx to be slightly larger than the estimated prompt size, with a
	// minimum value to ensure adequate context.
	numCtx := totalTokens + 1000
	if numCtx < 4096 {
		numCtx = 4096
	}

	stream := false
	req := &ollama.ChatRequest{
		Model:    actualModelName,
		Messages: ollamaMessages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": cfg.Temperature,
			"top_p":       cfg.TopP,
			"num_ctx":     numCtx,
		},
	}
	if jsonMode {
		req.Format = json.RawMessage(`"json"`)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var fullResponse strings.Builder
	var usage TokenUsage
	respFunc := func(res ollama.ChatResponse) error {
		fullResponse.WriteString(res.Message.Content)
		if res.Done {
			usage.PromptTokens = res.Metrics.PromptEvalCount
			usage.CompletionTokens = res.Metrics.EvalCount
			usage.TotalTokens = res.Metrics.PromptEvalCount + res.Metrics.EvalCount
		}
		return nil
	}

	if err := client.Chat(ctx, req, respFunc); err != nil {
		return "", nil, fmt.Errorf("ollama chat failed: %w", err)
	}

	return fullResponse.String(), &usage, nil
}
