// Package anthropic implements the Provider interface for the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"

	"polaris-hq/polaris/pkg/providers"
)

// DefaultBaseURL is the Anthropic API endpoint used when the descriptor
// does not override it.
const DefaultBaseURL = "https://api.anthropic.com"

// apiVersion is the Messages API version header value.
const apiVersion = "2023-06-01"

// defaultMaxTokens is used when the request does not set a token budget;
// the Messages API requires max_tokens on every call.
const defaultMaxTokens = 1024

// Provider is the Anthropic adapter. It maps the provider-agnostic
// completion request onto the Messages API schema.
type Provider struct {
	*providers.HTTPProvider
	baseURL string
}

// NewProvider creates an Anthropic adapter from the descriptor.
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

// SendCompletion performs one Messages API call and normalizes the reply.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	desc := p.GetDescriptor()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:       desc.Model,
		MaxTokens:   maxTokens,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	headers := map[string]string{
		"x-api-key":         desc.APIKey,
		"anthropic-version": apiVersion,
	}

	var reply messagesResponse
	url := p.baseURL + "/v1/messages"
	if err := p.DoJSONRequest(ctx, "POST", url, body, &reply, headers); err != nil {
		return nil, err
	}

	if len(reply.Content) == 0 {
		return nil, &providers.ParseError{
			Provider: desc.Name,
			Cause:    fmt.Errorf("response contained no content blocks"),
		}
	}

	return &providers.Response{
		ID:           reply.ID,
		Content:      reply.Content[0].Text,
		Model:        reply.Model,
		Provider:     desc.Name,
		FinishReason: reply.StopReason,
		Usage: &providers.TokenUsage{
			PromptTokens:     reply.Usage.InputTokens,
			CompletionTokens: reply.Usage.OutputTokens,
			TotalTokens:      reply.Usage.InputTokens + reply.Usage.OutputTokens,
		},
	}, nil
}

// Messages API wire types.

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
