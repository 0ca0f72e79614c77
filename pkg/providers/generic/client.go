// Package generic implements the Provider interface for OpenAI-compatible
// endpoints such as Ollama, vLLM, and LM Studio. Unlike the openai adapter
// it requires an explicit base URL and tolerates a missing API key, since
// local model servers typically run unauthenticated.
package generic

import (
	"context"
	"fmt"

	"polaris-hq/polaris/pkg/providers"
)

// Provider is the generic OpenAI-compatible adapter.
type Provider struct {
	*providers.HTTPProvider
	baseURL string
}

// NewProvider creates a generic adapter from the descriptor. BaseURL and
// Model are required; APIKey is optional.
func NewProvider(desc providers.Descriptor) (*Provider, error) {
	if desc.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "base_url",
			Message:  "base URL is required for generic providers",
		}
	}
	if desc.Model == "" {
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "model",
			Message:  "model is required",
		}
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(desc, providers.DefaultHTTPOptions()),
		baseURL:      desc.BaseURL,
	}, nil
}

// SendCompletion performs one chat-completions call and normalizes the reply.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	desc := p.GetDescriptor()

	body := chatRequest{
		Model:       desc.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	headers := map[string]string{}
	if desc.APIKey != "" {
		headers["Authorization"] = "Bearer " + desc.APIKey
	}

	var reply chatResponse
	url := p.baseURL + "/chat/completions"
	if err := p.DoJSONRequest(ctx, "POST", url, body, &reply, headers); err != nil {
		return nil, err
	}

	if len(reply.Choices) == 0 {
		return nil, &providers.ParseError{
			Provider: desc.Name,
			Cause:    fmt.Errorf("response contained no choices"),
		}
	}

	choice := reply.Choices[0]
	resp := &providers.Response{
		ID:           reply.ID,
		Content:      choice.Message.Content,
		Model:        reply.Model,
		Provider:     desc.Name,
		FinishReason: choice.FinishReason,
	}
	if reply.Usage != nil {
		resp.Usage = &providers.TokenUsage{
			PromptTokens:     reply.Usage.PromptTokens,
			CompletionTokens: reply.Usage.CompletionTokens,
			TotalTokens:      reply.Usage.TotalTokens,
		}
	}
	return resp, nil
}

// OpenAI-compatible wire types. Usage is a pointer because some local
// servers omit it entirely.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
