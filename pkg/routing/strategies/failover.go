package strategies

import "polaris-hq/polaris/pkg/providers"

// Failover scans the provider list in configured order and returns the
// first provider that is not known to be unhealthy. A provider with no
// stats entry has never been attempted and counts as healthy.
//
// When every provider is unhealthy, Failover returns the first provider in
// the list unconditionally: liveness over strict correctness, since a
// request sent to a possibly-recovered provider beats a guaranteed local
// failure.
type Failover struct{}

// NewFailover creates a failover strategy.
func NewFailover() *Failover {
	return &Failover{}
}

// SelectProvider returns the first provider whose stats entry is absent or
// whose health flag is set; otherwise the first provider in the list.
func (s *Failover) SelectProvider(available []providers.Descriptor, stats map[string]*providers.Stats) (providers.Descriptor, error) {
	if len(available) == 0 {
		return providers.Descriptor{}, ErrNoProviders
	}

	for _, desc := range available {
		entry, ok := stats[desc.Name]
		if !ok || entry.IsHealthy {
			return desc, nil
		}
	}

	return available[0], nil
}

// GetName returns the strategy name.
func (s *Failover) GetName() string {
	return "failover"
}

// Reset is a no-op; failover holds no state.
func (s *Failover) Reset() {}
