package routing

import (
	"context"

	"polaris-hq/polaris/pkg/providers"
)

// Balancer routes completion requests across a pool of providers. The
// Dispatcher is the production implementation; the interface exists so
// callers can substitute their own in tests.
type Balancer interface {
	// Request routes one completion request through the retry loop and
	// returns the first successful response, or an AggregateError once
	// the attempt budget is spent.
	Request(ctx context.Context, req *providers.Request) (*providers.Response, error)

	// GetStats returns a deep copy of per-provider statistics.
	GetStats() map[string]*providers.Stats

	// GetHealthyProviders returns the descriptors currently flagged healthy.
	GetHealthyProviders() []providers.Descriptor

	// HealthCheck probes every provider concurrently and updates health
	// flags. It returns once all probes have completed.
	HealthCheck(ctx context.Context) map[string]bool

	// AddProvider registers a new provider and rebuilds the strategy.
	AddProvider(desc providers.Descriptor) error

	// RemoveProvider deregisters a provider and rebuilds the strategy.
	RemoveProvider(name string) error

	// GetStrategy returns the name of the active routing strategy.
	GetStrategy() string

	// Close releases provider resources. The balancer must not be used
	// after Close returns.
	Close() error
}
