// Package providerfactory constructs provider adapters from descriptors.
// It is the seam between the dispatcher, which only knows the Provider
// interface, and the concrete vendor adapters.
package providerfactory

import (
	"fmt"
	"log/slog"
	"strings"

	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/providers/anthropic"
	"polaris-hq/polaris/pkg/providers/generic"
	"polaris-hq/polaris/pkg/providers/openai"
)

// NewProvider creates a provider adapter for the descriptor.
//
// The adapter kind is taken from desc.Type; if unset, it is inferred from
// the provider name:
//
//   - names containing "openai" -> OpenAI
//   - names containing "anthropic" or "claude" -> Anthropic
//   - everything else -> generic (OpenAI-compatible)
//
// Example:
//
//	provider, err := providerfactory.NewProvider(providers.Descriptor{
//	    Name:   "openai-primary",
//	    APIKey: "sk-...",
//	    Model:  "gpt-4o",
//	})
func NewProvider(desc providers.Descriptor) (providers.Provider, error) {
	kind := desc.Type
	if kind == "" {
		kind = inferType(desc.Name)
		desc.Type = kind
	}

	slog.Debug("creating provider",
		"name", desc.Name,
		"type", kind,
		"model", desc.Model,
	)

	var provider providers.Provider
	var err error

	switch kind {
	case providers.TypeOpenAI:
		provider, err = openai.NewProvider(desc)

	case providers.TypeAnthropic:
		provider, err = anthropic.NewProvider(desc)

	case providers.TypeGeneric:
		provider, err = generic.NewProvider(desc)

	default:
		return nil, &providers.ConfigError{
			Provider: desc.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, anthropic, generic)", kind),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", desc.Name, err)
	}

	return provider, nil
}

// inferType guesses the adapter kind from a provider name.
func inferType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "openai"):
		return providers.TypeOpenAI
	case strings.Contains(lower, "anthropic"), strings.Contains(lower, "claude"):
		return providers.TypeAnthropic
	default:
		return providers.TypeGeneric
	}
}
