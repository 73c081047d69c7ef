package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alantheprice/recode/pkg/config"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"
)

// ErrNotJSONObject is returned by AskJSON when the model's response could not
// be parsed as a JSON object. The raw response text is still returned so the
// caller can surface it.
var ErrNotJSONObject = errors.New("model response was not a valid JSON object")

// Client binds a model name and config into a simple ask interface. Each tool
// holds its own Client so different tools can route to different models.
type Client struct {
	cfg     *config.Config
	model   string
	timeout time.Duration
}

// NewClient creates a client for the given model. The request timeout comes
// from the config.
func NewClient(cfg *config.Config, model string) *Client {
	return &Client{
		cfg:     cfg,
		model:   model,
		timeout: time.Duration(cfg.RequestTimeoutSecs) * time.Second,
	}
}

// Model returns the model name this client calls.
func (c *Client) Model() string {
	return c.model
}

// Ask sends a system/user prompt pair and returns the assistant text.
func (c *Client) Ask(systemPrompt, userPrompt string) (string, error) {
	messages := prompts.BuildMessages(systemPrompt, userPrompt)
	content, usage, err := GetLLMResponse(c.model, messages, c.cfg, c.timeout, false)
	if err != nil {
		return "", err
	}
	logTokenUsage(c.cfg, c.model, usage)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("received an empty response from the model")
	}
	return content, nil
}

// AskJSON sends a system/user prompt pair expecting a JSON object back. The
// raw response text is always returned; when parsing fails the error wraps
// ErrNotJSONObject so callers can degrade gracefully.
func (c *Client) AskJSON(systemPrompt, userPrompt string) (map[string]interface{}, string, error) {
	messages := prompts.BuildMessages(systemPrompt, userPrompt)
	content, usage, err := GetLLMResponse(c.model, messages, c.cfg, c.timeout, true)
	if err != nil {
		return nil, "", err
	}
	logTokenUsage(c.cfg, c.model, usage)

	obj, perr := ParseJSONObject(content)
	if perr != nil {
		return nil, content, perr
	}
	return obj, content, nil
}

// ParseJSONObject parses text into a JSON object, tolerating code fences and
// surrounding prose.
func ParseJSONObject(text string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(text)

	var direct interface{}
	if err := json.Unmarshal([]byte(trimmed), &direct); err == nil {
		if obj, ok := direct.(map[string]interface{}); ok {
			return obj, nil
		}
		return nil, ErrNotJSONObject
	}

	extracted, err := utils.ExtractJSONFromLLMResponse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	var fallback interface{}
	if err := json.Unmarshal([]byte(extracted), &fallback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	obj, ok := fallback.(map[string]interface{})
	if !ok {
		return nil, ErrNotJSONObject
	}
	return obj, nil
}

func logTokenUsage(cfg *config.Config, model string, usage *TokenUsage) {
	if usage == nil || usage.TotalTokens == 0 {
		return
	}
	logger := utils.GetLogger(cfg.SkipPrompt)
	logger.Logf("Tokens used: %d input + %d output = %d total (model: %s)",
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, model)
}
