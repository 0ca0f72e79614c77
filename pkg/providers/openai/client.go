// Package openai implements the Provider interface for the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"

	"polaris-hq/polaris/pkg/providers"
)

// DefaultBaseURL is the OpenAI API endpoint used when the descriptor does
// not override it.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider is the OpenAI adapter. It maps the provider-agnostic completion
// request onto the Chat Completions schema.
type Provider struct {
	*providers.HTTPProvider
	baseURL string
}

// NewProvider creates an OpenAI adapter from the descriptor.
func NewProvider(desc providers.Descriptor) (*Provider, error) {
	if desc.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "api_key",
			Message:  "API key is required",
		}
	}
	if desc.Model == "" {
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "model",
			Message:  "model is required",
		}
	}

	baseURL := desc.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(desc, providers.DefaultHTTPOptions()),
		baseURL:      baseURL,
	}, nil
}

// SendCompletion performs one Chat Completions call and normalizes the reply.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	desc := p.GetDescriptor()

	body := chatRequest{
		Model:       desc.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + desc.APIKey,
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
	return &providers.Response{
		ID:           reply.ID,
		Content:      choice.Message.Content,
		Model:        reply.Model,
		Provider:     desc.Name,
		FinishReason: choice.FinishReason,
		Usage: &providers.TokenUsage{
			PromptTokens:     reply.Usage.PromptTokens,
			CompletionTokens: reply.Usage.CompletionTokens,
			TotalTokens:      reply.Usage.TotalTokens,
		},
	}, nil
}

// Chat Completions wire types.

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
	Usage   chatUsage    `json:"usage"`
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
