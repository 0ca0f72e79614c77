package strategies

import (
	"errors"

	"polaris-hq/polaris/pkg/providers"
)

// ErrNilSelectFunc is returned when a custom strategy is constructed
// without a selection function.
var ErrNilSelectFunc = errors.New("custom strategy requires a selection function")

// Custom wraps a caller-supplied selection function. It lets callers plug
// in policies the built-in strategies do not cover (latency-aware routing,
// cost-based selection) without touching the dispatcher.
type Custom struct {
	fn SelectFunc
}

// NewCustom creates a custom strategy. The selection function is required;
// configuration with a nil function is rejected here so the dispatcher can
// fail fast at construction time.
func NewCustom(fn SelectFunc) (*Custom, error) {
	if fn == nil {
		return nil, ErrNilSelectFunc
	}
	return &Custom{fn: fn}, nil
}

// SelectProvider delegates to the wrapped function after the empty-set guard.
func (s *Custom) SelectProvider(available []providers.Descriptor, stats map[string]*providers.Stats) (providers.Descriptor, error) {
	if len(available) == 0 {
		return providers.Descriptor{}, ErrNoProviders
	}
	return s.fn(available)
}

// GetName returns the strategy name.
func (s *Custom) GetName() string {
	return "custom"
}

// Reset is a no-op; the wrapped function owns any state it keeps.
func (s *Custom) Reset() {}
