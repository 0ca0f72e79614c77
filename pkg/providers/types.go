package providers

import "time"

// Descriptor identifies one configured provider and carries everything an
// adapter needs to reach it. Descriptors are immutable once constructed;
// the provider set only changes through the dispatcher's AddProvider and
// RemoveProvider operations.
type Descriptor struct {
	// Name is the unique key for this provider (e.g., "openai-primary").
	Name string `yaml:"name"`

	// Type is the adapter kind ("openai", "anthropic", "generic").
	// If empty, the factory infers it from Name.
	Type string `yaml:"type,omitempty"`

	// APIKey is the credential sent to the vendor.
	APIKey string `yaml:"api_key"`

	// Model is the target model identifier (e.g., "gpt-4o", "claude-3-opus").
	Model string `yaml:"model"`

	// BaseURL overrides the adapter's default API endpoint (optional).
	BaseURL string `yaml:"base_url,omitempty"`

	// Weight is the relative share of traffic for the weighted strategy.
	// Zero or negative values are treated as the default weight of 1.
	Weight int `yaml:"weight,omitempty"`

	// Timeout is the per-attempt timeout for this provider (optional).
	// When zero, the dispatcher's global timeout applies.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxRetries is a per-provider retry budget hint (optional). The
	// dispatcher's global retry budget governs the request loop; this
	// value is surfaced to adapters that want it for their own tuning.
	MaxRetries int `yaml:"max_retries,omitempty"`
}

// EffectiveWeight returns the descriptor's weight, substituting the default
// weight of 1 when none is configured.
func (d Descriptor) EffectiveWeight() int {
	if d.Weight <= 0 {
		return 1
	}
	return d.Weight
}

// Request is a provider-agnostic completion request. It is passed by value
// semantics: neither the dispatcher nor adapters mutate it.
type Request struct {
	// Prompt is the text to complete.
	Prompt string `json:"prompt"`

	// MaxTokens is the maximum number of tokens to generate (optional).
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0, optional).
	Temperature float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling (0.0 to 1.0, optional).
	TopP float64 `json:"top_p,omitempty"`

	// Stream requests a streaming response. The load-balancing core does
	// not support streaming; the flag is carried for adapter completeness
	// and ignored by the dispatcher.
	Stream bool `json:"stream,omitempty"`
}

// TokenUsage tracks token consumption for one completion.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of generated tokens.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is prompt plus completion.
	TotalTokens int `json:"total_tokens"`
}

// Response is a provider-agnostic completion response, normalized from the
// vendor-specific reply by the adapter that produced it.
type Response struct {
	// ID is the unique response identifier. Adapters echo the vendor ID
	// when one is returned; the dispatcher fills it otherwise.
	ID string `json:"id,omitempty"`

	// Content is the generated text.
	Content string `json:"content"`

	// Model is the model that generated the response.
	Model string `json:"model"`

	// Provider is the name of the provider that served the request.
	Provider string `json:"provider"`

	// FinishReason indicates why generation stopped (optional,
	// provider-dependent; e.g., "stop", "length").
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage contains the token breakdown when the vendor reports one.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Stats is the per-provider bookkeeping record maintained by the
// dispatcher's statistics tracker. One record exists per registered
// provider, created on registration and deleted on removal.
//
// Invariants, maintained by the tracker after every attempt:
//
//	TotalRequests == SuccessfulRequests + FailedRequests
//	IsHealthy     == SuccessfulRequests/TotalRequests > 0.5  (once TotalRequests > 0)
//
// A provider with no recorded attempts is healthy by default.
type Stats struct {
	// TotalRequests is the number of attempts charged to this provider.
	TotalRequests int64 `json:"total_requests"`

	// SuccessfulRequests is the number of successful attempts.
	SuccessfulRequests int64 `json:"successful_requests"`

	// FailedRequests is the number of failed attempts.
	FailedRequests int64 `json:"failed_requests"`

	// AverageResponseTime is the running mean latency of successful
	// attempts, in milliseconds. Failed attempts do not perturb it.
	AverageResponseTime float64 `json:"average_response_time_ms"`

	// LastRequestTime is when the most recent attempt finished.
	LastRequestTime time.Time `json:"last_request_time"`

	// IsHealthy is the rolling health flag. Derived from the success
	// ratio after normal attempts; written directly by health sweeps.
	IsHealthy bool `json:"is_healthy"`
}

// Clone returns an independent copy of the stats record.
func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Adapter type constants, used by Descriptor.Type and the provider factory.
const (
	TypeOpenAI    = "openai"
	TypeAnthropic = "anthropic"
	TypeGeneric   = "generic"
)
