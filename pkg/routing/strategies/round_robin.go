package strategies

import (
	"sync"

	"polaris-hq/polaris/pkg/providers"
)

// RoundRobin cycles through providers in their configured order. The
// cursor starts at zero and advances by one on every selection, wrapping
// at the end of the list.
//
// The cursor is strategy-local state that persists for the strategy's
// lifetime. It is a raw index into whatever list the caller passes: if the
// provider list is reordered or resized between calls, the next selection
// may land on a shifted position. This is a known limitation carried
// deliberately; the dispatcher compensates by rebuilding the strategy
// (fresh cursor) whenever it mutates the provider set.
type RoundRobin struct {
	mu     sync.Mutex
	cursor int
}

// NewRoundRobin creates a round-robin strategy with the cursor at zero.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// SelectProvider returns the provider at the cursor, then advances the
// cursor modulo the list length. Statistics are ignored.
func (s *RoundRobin) SelectProvider(available []providers.Descriptor, stats map[string]*providers.Stats) (providers.Descriptor, error) {
	if len(available) == 0 {
		return providers.Descriptor{}, ErrNoProviders
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The list may have shrunk since the last call.
	if s.cursor >= len(available) {
		s.cursor = 0
	}

	selected := available[s.cursor]
	s.cursor = (s.cursor + 1) % len(available)
	return selected, nil
}

// GetName returns the strategy name.
func (s *RoundRobin) GetName() string {
	return "round-robin"
}

// Reset resets the cursor to zero.
func (s *RoundRobin) Reset() {
	s.mu.Lock()
	s.cursor = 0
	s.mu.Unlock()
}
