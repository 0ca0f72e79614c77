// Package providers defines the provider abstraction used by the Polaris
// load balancer and the shared plumbing for HTTP-based provider adapters.
//
// A provider adapter maps the provider-agnostic completion request onto one
// vendor's REST schema, performs a single network call, and normalizes the
// reply. Adapters never retry: retry policy, per-attempt timeouts, and
// backoff all live in the dispatcher (pkg/routing), which treats each
// adapter call as exactly one attempt.
//
// # Provider Interface
//
// All adapters implement the Provider interface:
//
//	provider, err := openai.NewProvider(desc)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.Request{
//	    Prompt:    "Hello!",
//	    MaxTokens: 256,
//	})
//
// # Error Taxonomy
//
// Failed calls return typed errors carrying the provider name and, where
// applicable, the vendor HTTP status code:
//
//   - ProviderError: generic vendor error with status code
//   - AuthError: credential rejected (401/403)
//   - RateLimitError: rate limit exceeded (429), with Retry-After if sent
//   - TimeoutError: the call exceeded its deadline
//   - ParseError: the vendor reply could not be decoded
//   - ConfigError: invalid adapter configuration, detected at construction
//
// The dispatcher converts these into per-attempt failures; callers normally
// only see them inside an aggregate failure after retries are exhausted.
//
// # Implementations
//
// Three adapters ship with Polaris:
//
//   - openai: OpenAI Chat Completions API
//   - anthropic: Anthropic Messages API
//   - generic: any OpenAI-compatible endpoint (Ollama, vLLM, LM Studio)
//
// All three embed HTTPProvider, which supplies a pooled HTTP client and
// status-code classification.
package providers
