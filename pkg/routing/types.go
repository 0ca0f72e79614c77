package routing

import (
	"time"

	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/routing/strategies"
	"polaris-hq/polaris/pkg/telemetry/metrics"
)

// Strategy kind constants accepted by Config.Strategy.
const (
	StrategyRoundRobin = "round-robin"
	StrategyFailover   = "failover"
	StrategyWeighted   = "weighted"
	StrategyCustom     = "custom"
)

// Dispatcher defaults.
const (
	// DefaultTimeout is the global per-attempt timeout when neither the
	// descriptor nor the configuration carries one.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the attempt budget per logical request.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base backoff delay; the actual delay is
	// DefaultRetryDelay * 2^attempt.
	DefaultRetryDelay = 1 * time.Second

	// ProbeTimeout is the fixed timeout for health sweep probes.
	ProbeTimeout = 5 * time.Second
)

// Config contains the dispatcher configuration.
type Config struct {
	// Strategy selects the provider-selection policy. One of the
	// Strategy* constants. Default: StrategyRoundRobin.
	Strategy string

	// Providers is the ordered provider list. At least one provider is
	// required; order matters for round-robin and failover.
	Providers []providers.Descriptor

	// CustomStrategy supplies the selection function when Strategy is
	// StrategyCustom. Required in that case, ignored otherwise.
	CustomStrategy strategies.SelectFunc

	// Timeout is the global per-attempt timeout, used when a descriptor
	// does not carry its own. Default: DefaultTimeout.
	Timeout time.Duration

	// MaxRetries bounds the attempt loop. Default: DefaultMaxRetries.
	MaxRetries int

	// RetryDelay is the base backoff delay. Default: DefaultRetryDelay.
	RetryDelay time.Duration

	// Metrics receives per-attempt and health observations. Optional; a
	// nil collector records nothing.
	Metrics *metrics.Collector
}

// ProviderFactory constructs an adapter for a descriptor. The dispatcher
// uses it for initial construction and for AddProvider; tests substitute
// fakes through NewWithFactory.
type ProviderFactory func(providers.Descriptor) (providers.Provider, error)

// applyDefaults returns a copy of cfg with defaults filled in.
func (c *Config) applyDefaults() Config {
	out := *c
	if out.Strategy == "" {
		out.Strategy = StrategyRoundRobin
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = DefaultMaxRetries
	}
	if out.RetryDelay <= 0 {
		out.RetryDelay = DefaultRetryDelay
	}
	return out
}
