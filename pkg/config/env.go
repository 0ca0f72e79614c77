package config

import (
	"os"

	"polaris-hq/polaris/pkg/providers"
)

// FromEnv builds a configuration from well-known environment variables,
// with no configuration file at all. It detects:
//
//   - OPENAI_API_KEY (model from OPENAI_MODEL, default "gpt-4o-mini")
//   - ANTHROPIC_API_KEY (model from ANTHROPIC_MODEL, default "claude-3-5-haiku-latest")
//   - POLARIS_GENERIC_BASE_URL + POLARIS_GENERIC_MODEL
//     (optional POLARIS_GENERIC_API_KEY)
//
// Providers appear in the order above, so round-robin and failover order
// is stable across runs. Defaults are applied; validation is left to the
// caller because a partially configured environment is a legitimate state
// to report precisely.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:   "openai",
			Type:   providers.TypeOpenAI,
			APIKey: key,
			Model:  model,
		})
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-3-5-haiku-latest"
		}
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:   "anthropic",
			Type:   providers.TypeAnthropic,
			APIKey: key,
			Model:  model,
		})
	}

	if baseURL := os.Getenv("POLARIS_GENERIC_BASE_URL"); baseURL != "" {
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:    "generic",
			Type:    providers.TypeGeneric,
			APIKey:  os.Getenv("POLARIS_GENERIC_API_KEY"),
			Model:   os.Getenv("POLARIS_GENERIC_MODEL"),
			BaseURL: baseURL,
		})
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}
