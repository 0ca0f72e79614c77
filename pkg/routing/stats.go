package routing

import (
	"sync"
	"time"

	"polaris-hq/polaris/pkg/providers"
)

// Tracker maintains per-provider request statistics and health flags.
// All methods are safe for concurrent use; a single mutex guards the map
// so that derived fields (average latency, health) are always computed
// against a consistent counter set.
type Tracker struct {
	mu    sync.Mutex
	stats map[string]*providers.Stats
}

// NewTracker creates a tracker pre-populated with an entry per
// descriptor. Providers start healthy with zeroed counters.
func NewTracker(descriptors []providers.Descriptor) *Tracker {
	t := &Tracker{stats: make(map[string]*providers.Stats, len(descriptors))}
	for _, desc := range descriptors {
		t.stats[desc.Name] = &providers.Stats{IsHealthy: true}
	}
	return t
}

// Register adds a fresh healthy entry for the named provider. Existing
// entries are left untouched so a re-register never wipes history.
func (t *Tracker) Register(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.stats[name]; !ok {
		t.stats[name] = &providers.Stats{IsHealthy: true}
	}
}

// Remove drops the entry for the named provider. Removing an unknown
// provider is a no-op.
func (t *Tracker) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.stats, name)
}

// RecordAttempt records the outcome of one provider attempt. Successful
// attempts fold their latency into the running average; failures only
// bump counters. After every update the health flag is re-derived from
// the success ratio: a provider is healthy while more than half of its
// attempts succeed. Attempts against unknown providers are discarded.
func (t *Tracker) RecordAttempt(name string, success bool, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[name]
	if !ok {
		return
	}

	s.TotalRequests++
	s.LastRequestTime = time.Now()
	if success {
		s.SuccessfulRequests++
		elapsedMs := float64(elapsed.Milliseconds())
		s.AverageResponseTime = (s.AverageResponseTime*float64(s.SuccessfulRequests-1) + elapsedMs) / float64(s.SuccessfulRequests)
	} else {
		s.FailedRequests++
	}

	s.IsHealthy = float64(s.SuccessfulRequests)/float64(s.TotalRequests) > 0.5
}

// SetHealthy overrides the health flag for the named provider. Used by
// the health sweep, which probes providers outside the request path.
// Unknown providers are ignored.
func (t *Tracker) SetHealthy(name string, healthy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.stats[name]; ok {
		s.IsHealthy = healthy
	}
}

// IsHealthy reports the current health flag for the named provider.
// A provider with no stats entry has no failure history and counts as
// healthy.
func (t *Tracker) IsHealthy(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.stats[name]
	return !ok || s.IsHealthy
}

// Snapshot returns a deep copy of all per-provider statistics. Callers
// may mutate the result freely without affecting the tracker.
func (t *Tracker) Snapshot() map[string]*providers.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]*providers.Stats, len(t.stats))
	for name, s := range t.stats {
		out[name] = s.Clone()
	}
	return out
}
