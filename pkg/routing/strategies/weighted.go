package strategies

import (
	"math/rand"
	"sync"
	"time"

	"polaris-hq/polaris/pkg/providers"
)

// Weighted selects providers at random in proportion to their configured
// weights (default 1 when unset). It precomputes a cumulative-weight table
// at construction and rebuilds it whenever the provider-list length
// differs from the cached length.
//
// The staleness check is length-only by design: a same-length swap of the
// provider list is not detected, so the cumulative table can become
// misaligned until the next length change. This cheap check is carried as
// a documented limitation; the dispatcher compensates by rebuilding the
// strategy (fresh table) whenever it mutates the provider set.
type Weighted struct {
	mu         sync.Mutex
	cumulative []int
	total      int
	cachedLen  int
	rng        *rand.Rand
}

// NewWeighted creates a weighted strategy with the table precomputed from
// the given provider list.
func NewWeighted(available []providers.Descriptor) *Weighted {
	s := &Weighted{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.rebuild(available)
	return s
}

// SelectProvider draws a uniform value in [0, totalWeight) and returns the
// first provider whose cumulative weight reaches the draw. Falls back to
// the last provider as a numeric edge-case guard.
func (s *Weighted) SelectProvider(available []providers.Descriptor, stats map[string]*providers.Stats) (providers.Descriptor, error) {
	if len(available) == 0 {
		return providers.Descriptor{}, ErrNoProviders
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(available) != s.cachedLen {
		s.rebuild(available)
	}

	draw := s.rng.Float64() * float64(s.total)
	for i, cum := range s.cumulative {
		if float64(cum) >= draw {
			return available[i], nil
		}
	}

	return available[len(available)-1], nil
}

// rebuild recomputes the cumulative-weight table. Callers hold s.mu
// except during construction.
func (s *Weighted) rebuild(available []providers.Descriptor) {
	s.cumulative = make([]int, len(available))
	s.total = 0
	for i, desc := range available {
		s.total += desc.EffectiveWeight()
		s.cumulative[i] = s.total
	}
	s.cachedLen = len(available)
}

// GetName returns the strategy name.
func (s *Weighted) GetName() string {
	return "weighted"
}

// Reset clears the cached table; it is recomputed on the next selection.
func (s *Weighted) Reset() {
	s.mu.Lock()
	s.cumulative = nil
	s.total = 0
	s.cachedLen = 0
	s.mu.Unlock()
}
