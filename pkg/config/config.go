package config

import (
	"time"

	"polaris-hq/polaris/pkg/providers"
)

// Config is the root configuration structure for Polaris. It contains the
// balancer settings, the provider list, and telemetry configuration.
type Config struct {
	// Balancer contains the dispatcher configuration: strategy selection,
	// retry policy, timeouts, and the health sweep schedule.
	Balancer BalancerConfig `yaml:"balancer"`

	// Providers is the ordered list of provider descriptors. Order
	// matters: round-robin and failover both honor it.
	Providers []ProviderConfig `yaml:"providers"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BalancerConfig contains configuration for the dispatcher.
type BalancerConfig struct {
	// Strategy selects the provider-selection policy.
	// One of: "round-robin", "failover", "weighted".
	// ("custom" is only reachable programmatically, since a selection
	// function cannot be expressed in YAML.)
	// Default: "round-robin"
	Strategy string `yaml:"strategy"`

	// Timeout is the global per-attempt timeout, used when a provider
	// descriptor does not carry its own.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries bounds the request loop: at most this many attempts are
	// made before the request fails with an aggregate error.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base backoff delay between attempts. The actual
	// delay doubles after each failed attempt.
	// Default: 1s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// HealthSweepSchedule is a cron expression (or "@every" descriptor)
	// for periodic health sweeps. Empty disables scheduled sweeps.
	// Example: "@every 30s"
	HealthSweepSchedule string `yaml:"health_sweep_schedule"`
}

// ProviderConfig contains configuration for a single provider.
type ProviderConfig struct {
	// Name is the unique provider key.
	Name string `yaml:"name"`

	// Type is the adapter kind ("openai", "anthropic", "generic").
	// If empty, the factory infers it from Name.
	Type string `yaml:"type,omitempty"`

	// APIKey is the credential sent to the vendor. Supports ${VAR}
	// expansion from the environment at load time.
	APIKey string `yaml:"api_key"`

	// Model is the target model identifier.
	Model string `yaml:"model"`

	// BaseURL overrides the adapter's default endpoint (optional).
	BaseURL string `yaml:"base_url,omitempty"`

	// Weight is the relative traffic share for the weighted strategy.
	Weight int `yaml:"weight,omitempty"`

	// Timeout is the per-attempt timeout for this provider (optional).
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxRetries is a per-provider retry budget hint (optional).
	MaxRetries int `yaml:"max_retries,omitempty"`
}

// Descriptor converts the provider configuration to the descriptor shape
// consumed by the dispatcher and the provider factory.
func (p ProviderConfig) Descriptor() providers.Descriptor {
	return providers.Descriptor{
		Name:       p.Name,
		Type:       p.Type,
		APIKey:     p.APIKey,
		Model:      p.Model,
		BaseURL:    p.BaseURL,
		Weight:     p.Weight,
		Timeout:    p.Timeout,
		MaxRetries: p.MaxRetries,
	}
}

// Descriptors converts the configured provider list.
func (c *Config) Descriptors() []providers.Descriptor {
	descs := make([]providers.Descriptor, 0, len(c.Providers))
	for _, p := range c.Providers {
		descs = append(descs, p.Descriptor())
	}
	return descs
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "polaris"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "balancer"
	Subsystem string `yaml:"subsystem"`
}
