package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alantheprice/recode/pkg/apikeys"
	"github.com/alantheprice/recode/pkg/config"
	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"
)

// providerEndpoints maps a provider name to its OpenAI-compatible chat
// completions endpoint. Ollama is handled separately through its SDK.
var providerEndpoints = map[string]string{
	"openai":    "https://api.openai.com/v1/chat/completions",
	"groq":      "https://api.groq.com/openai/v1/chat/completions",
	"deepseek":  "https://api.deepseek.com/openai/v1/chat/completions",
	"deepinfra": "https://api.deepinfra.com/v1/openai/chat/completions",
}

// ResolveProvider splits a "provider:model" name into its parts. Model names
// may themselves contain colons (ollama tags like qwen2.5-coder:7b), so only
// the first segment is treated as the provider. A bare model name routes to
// openai.
func ResolveProvider(modelName string) (provider, model string) {
	parts := strings.SplitN(modelName, ":", 3)
	if len(parts) == 1 {
		return "openai", parts[0]
	}
	if _, known := providerEndpoints[parts[0]]; !known && parts[0] != "ollama" {
		// Unknown prefix: treat the whole string as an openai model name.
		return "openai", modelName
	}
	return parts[0], strings.Join(parts[1:], ":")
}

// GetLLMResponse sends the messages to the provider selected by modelName and
// returns the assistant text. When jsonMode is set, providers that support it
// are asked for a JSON object response; providers that reject the option get
// one retry without it. Each request is tagged with a short trace ID in the
// workspace log.
func GetLLMResponse(modelName string, messages []prompts.Message, cfg *config.Config, timeout time.Duration, jsonMode bool) (string, *TokenUsage, error) {
	provider, model := ResolveProvider(modelName)

	requestID := uuid.NewString()[:8]
	logger := utils.GetLogger(cfg.SkipPrompt)
	logger.Logf("llm request %s: provider=%s model=%s json=%v", requestID, provider, model, jsonMode)

	var (
		content string
		usage   *TokenUsage
		err     error
	)
	if provider == "ollama" {
		content, usage, err = callOllama(model, messages, cfg, timeout, jsonMode)
	} else {
		apiURL, ok := providerEndpoints[provider]
		if !ok {
			return "", nil, fmt.Errorf("unsupported LLM provider: %s", provider)
		}
		var apiKey string
		apiKey, err = apikeys.GetAPIKey(provider, !cfg.SkipPrompt)
		if err != nil {
			return "", nil, err
		}
		content, usage, err = callOpenAICompatible(apiURL, apiKey, model, messages, cfg, timeout, jsonMode)
	}
	if err != nil {
		logger.Logf("llm request %s failed: %v", requestID, err)
		return "", nil, err
	}
	logger.Logf("llm request %s completed: %d chars", requestID, len(content))
	return content, usage, nil
}

func callOpenAICompatible(apiURL, apiKey, model string, messages []prompts.Message, cfg *config.Config, timeout time.Duration, jsonMode bool) (string, *TokenUsage, error) {
	reqPayload := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Stream:      false,
	}
	if jsonMode {
		reqPayload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: timeout}
	resp, err := retryWithBackoff(req, client)
	if err != nil {
		return "", nil, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Some OpenAI-compatible servers reject response_format; drop it and
		// retry once, relying on the prompt to keep the output JSON.
		if jsonMode && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lower := strings.ToLower(string(respBody))
			if strings.Contains(lower, "response_format") || strings.Contains(lower, "unsupported") {
				return callOpenAICompatible(apiURL, apiKey, model, messages, cfg, timeout, false)
			}
		}
		return "", nil, fmt.Errorf("API error: %s, status code: %d", string(respBody), resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", nil, fmt.Errorf("error unmarshaling response body: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil, fmt.Errorf("no choices returned from model %s", model)
	}

	usage := decoded.Usage
	return decoded.Choices[0].Message.Content, &usage, nil
}

// retryWithBackoff executes an HTTP request with exponential backoff retry logic.
// Handles 5xx errors, network errors, and specific 4xx errors that might be transient.
func retryWithBackoff(req *http.Request, client *http.Client) (*http.Response, error) {
	const maxRetries = 3
	const baseDelay = 100 * time.Millisecond

	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Reset request body for retry
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return lastResp, lastErr
			}
			req.Body = body
		}

		resp, err := client.Do(req)
		lastResp = resp
		lastErr = err

		if err != nil {
			// Network errors - retry with exponential backoff
			if attempt < maxRetries {
				delay := baseDelay * time.Duration(1<<attempt) // 100ms, 200ms, 400ms
				time.Sleep(delay)
				continue
			}
			return resp, err
		}

		// Check for retryable status codes
		shouldRetry := false
		switch resp.StatusCode {
		case 408: // Request Timeout
			shouldRetry = true
		case 429: // Too Many Requests
			shouldRetry = true
		case 500, 502, 503, 504: // Server errors
			shouldRetry = true
		}

		if shouldRetry && attempt < maxRetries {
			// Close response body before retry
			resp.Body.Close()

			// Exponential backoff with jitter
			delay := baseDelay * time.Duration(1<<attempt)
			jitter := time.Duration(time.Now().UnixNano() % int64(delay) / 2) // Add up to 50% jitter
			totalDelay := delay + jitter

			time.Sleep(totalDelay)
			continue
		}

		// Success or non-retryable error
		return resp, err
	}

	return lastResp, lastErr
}
