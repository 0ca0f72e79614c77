// Package strategies implements the provider-selection policies used by
// the Polaris dispatcher.
//
// Available strategies:
//   - RoundRobin: cycles through providers in configured order.
//   - Failover:   first provider whose recorded health is good.
//   - Weighted:   random selection proportional to configured weights.
//   - Custom:     caller-supplied selection function.
package strategies

import (
	"errors"

	"polaris-hq/polaris/pkg/providers"
)

// ErrNoProviders is returned by every strategy when asked to select from
// an empty provider list. The dispatcher never calls a strategy with an
// empty list, but the contract still requires the guard.
var ErrNoProviders = errors.New("no providers available for selection")

// Strategy is the interface all selection policies implement. Given the
// ordered provider list and the current statistics snapshot, a strategy
// picks one provider for the next attempt.
//
// Strategies hold only policy state (a rotation cursor, a precomputed
// weight table); they never mutate statistics or descriptors. The
// dispatcher rebuilds the strategy from scratch whenever the provider set
// changes, so cached state never outlives a mutation.
//
// Implementations must be safe for concurrent use.
type Strategy interface {
	// SelectProvider picks one provider from the available list. The
	// stats map is keyed by provider name; entries may be absent for
	// providers that have not yet recorded an attempt.
	SelectProvider(available []providers.Descriptor, stats map[string]*providers.Stats) (providers.Descriptor, error)

	// GetName returns the strategy name for logging and statistics.
	GetName() string

	// Reset resets the strategy's internal state. Primarily for tests.
	Reset()
}

// SelectFunc is a caller-supplied selection function for the custom
// strategy. It must be pure: same list in, same provider out, no side
// effects on the list.
type SelectFunc func(available []providers.Descriptor) (providers.Descriptor, error)
