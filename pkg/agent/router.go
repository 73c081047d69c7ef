// Package agent routes natural-language requests to the code tools and runs
// them with diff previews and per-write confirmation.
package agent

import (
	"errors"
	"fmt"

	"github.com/alantheprice/recode/pkg/llm"
	"github.com/alantheprice/recode/pkg/prompts"
)

// RouterClient is the model surface the router needs. *llm.Client satisfies it.
type RouterClient interface {
	AskJSON(systemPrompt, userPrompt string) (map[string]interface{}, string, error)
}

// Router turns free-form user text into a ToolSpec.
type Router struct {
	client RouterClient
}

// NewRouter creates a Router backed by the given model client.
func NewRouter(client RouterClient) *Router {
	return &Router{client: client}
}

// RouteUserRequest asks the routing model which tool to run with which
// arguments. The response must be a JSON object.
func (r *Router) RouteUserRequest(userText string) (ToolSpec, error) {
	obj, raw, err := r.client.AskJSON(prompts.AgentSystemPrompt(), prompts.AgentUserPrompt(userText))
	if err != nil {
		if errors.Is(err, llm.ErrNotJSONObject) {
			return ToolSpec{}, fmt.Errorf("agent response was not a valid JSON object: %q", raw)
		}
		return ToolSpec{}, err
	}
	return SpecFromObject(obj)
}
