package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"polaris-hq/polaris/pkg/providerfactory"
	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/routing/strategies"
	"polaris-hq/polaris/pkg/telemetry/metrics"
)

var _ Balancer = (*Dispatcher)(nil)

// Dispatcher is the production Balancer. It owns the provider pool, the
// active strategy, and the statistics tracker, and drives the retry loop
// for every request.
type Dispatcher struct {
	mu          sync.RWMutex
	cfg         Config
	factory     ProviderFactory
	strategy    strategies.Strategy
	descriptors []providers.Descriptor
	instances   map[string]providers.Provider
	tracker     *Tracker
	metrics     *metrics.Collector
}

// New creates a dispatcher backed by the default provider factory.
func New(cfg Config) (*Dispatcher, error) {
	return NewWithFactory(cfg, providerfactory.NewProvider)
}

// NewWithFactory creates a dispatcher with a caller-supplied provider
// factory. The configuration must carry at least one provider; provider
// names must be unique.
func NewWithFactory(cfg Config, factory ProviderFactory) (*Dispatcher, error) {
	cfg = cfg.applyDefaults()

	if len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	if factory == nil {
		return nil, errors.New("provider factory must not be nil")
	}

	seen := make(map[string]struct{}, len(cfg.Providers))
	for _, desc := range cfg.Providers {
		if _, dup := seen[desc.Name]; dup {
			return nil, fmt.Errorf("provider %q: %w", desc.Name, ErrProviderExists)
		}
		seen[desc.Name] = struct{}{}
	}

	strategy, err := buildStrategy(cfg.Strategy, cfg.Providers, cfg.CustomStrategy)
	if err != nil {
		return nil, err
	}

	instances := make(map[string]providers.Provider, len(cfg.Providers))
	for _, desc := range cfg.Providers {
		p, err := factory(desc)
		if err != nil {
			for _, built := range instances {
				_ = built.Close()
			}
			return nil, fmt.Errorf("building provider %q: %w", desc.Name, err)
		}
		instances[desc.Name] = p
	}

	descriptors := make([]providers.Descriptor, len(cfg.Providers))
	copy(descriptors, cfg.Providers)

	d := &Dispatcher{
		cfg:         cfg,
		factory:     factory,
		strategy:    strategy,
		descriptors: descriptors,
		instances:   instances,
		tracker:     NewTracker(descriptors),
		metrics:     cfg.Metrics,
	}

	for _, desc := range descriptors {
		d.metrics.UpdateHealth(desc.Name, true)
	}

	slog.Info("dispatcher initialized",
		"strategy", strategy.GetName(),
		"providers", len(descriptors),
		"max_retries", cfg.MaxRetries,
	)
	return d, nil
}

// Request routes one completion request. Each attempt selects a provider
// through the active strategy, calls it under a per-attempt timeout and
// records the outcome. Failed attempts are retried with exponential
// backoff until the attempt budget is spent, at which point every
// collected failure is returned in an AggregateError. Cancelling ctx
// terminates the loop immediately.
func (d *Dispatcher) Request(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	requestID := uuid.NewString()
	attempts := make([]*AttemptError, 0, d.cfg.MaxRetries)

	for attempt := 0; attempt < d.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := d.cfg.RetryDelay * (1 << (attempt - 1))
			slog.Debug("backing off before retry",
				"request_id", requestID,
				"attempt", attempt,
				"delay", delay,
			)
			d.metrics.RecordRetry()
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}
		}

		desc, provider, err := d.selectProvider()
		if err != nil {
			attempts = append(attempts, normalizeAttemptError(err))
			continue
		}

		start := time.Now()
		resp, err := d.callWithTimeout(ctx, provider, desc, req)
		elapsed := time.Since(start)

		if err == nil {
			d.tracker.RecordAttempt(desc.Name, true, elapsed)
			d.metrics.RecordAttempt(desc.Name, metrics.OutcomeSuccess, elapsed.Seconds())
			d.metrics.RecordRequest(metrics.OutcomeSuccess)
			slog.Debug("request completed",
				"request_id", requestID,
				"provider", desc.Name,
				"attempt", attempt,
				"elapsed", elapsed,
			)
			return resp, nil
		}

		// A cancelled parent context is not a provider failure; stop
		// without charging anyone.
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, err
		}

		d.tracker.RecordAttempt(desc.Name, false, elapsed)
		d.metrics.RecordAttempt(desc.Name, attemptOutcome(err), elapsed.Seconds())
		attempts = append(attempts, normalizeAttemptError(err))
		slog.Warn("attempt failed",
			"request_id", requestID,
			"provider", desc.Name,
			"attempt", attempt,
			"error", err,
		)
	}

	d.metrics.RecordRequest(metrics.OutcomeFailure)
	agg := &AggregateError{Attempts: attempts}
	slog.Error("request failed",
		"request_id", requestID,
		"attempts", len(attempts),
		"error", agg,
	)
	return nil, agg
}

// selectProvider runs the active strategy over the current provider set
// and resolves the chosen descriptor to its live adapter.
func (d *Dispatcher) selectProvider() (providers.Descriptor, providers.Provider, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	desc, err := d.strategy.SelectProvider(d.descriptors, d.tracker.Snapshot())
	if err != nil {
		return providers.Descriptor{}, nil, err
	}
	p, ok := d.instances[desc.Name]
	if !ok {
		return providers.Descriptor{}, nil, fmt.Errorf("provider %q: %w", desc.Name, ErrProviderNotFound)
	}
	return desc, p, nil
}

// callWithTimeout runs one provider call under the per-attempt timeout.
// The descriptor timeout wins over the configured global one. If the
// deadline fires first the call is abandoned and a TimeoutError is
// returned; a late completion from the abandoned call is discarded and
// never touches statistics.
func (d *Dispatcher) callWithTimeout(ctx context.Context, p providers.Provider, desc providers.Descriptor, req *providers.Request) (*providers.Response, error) {
	timeout := desc.Timeout
	if timeout <= 0 {
		timeout = d.cfg.Timeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		resp *providers.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := p.SendCompletion(attemptCtx, req)
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &providers.TimeoutError{Provider: desc.Name, Timeout: timeout}
	}
}

// GetStats returns a deep copy of per-provider statistics.
func (d *Dispatcher) GetStats() map[string]*providers.Stats {
	return d.tracker.Snapshot()
}

// GetHealthyProviders returns the descriptors currently flagged healthy,
// in registration order.
func (d *Dispatcher) GetHealthyProviders() []providers.Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	healthy := make([]providers.Descriptor, 0, len(d.descriptors))
	for _, desc := range d.descriptors {
		if d.tracker.IsHealthy(desc.Name) {
			healthy = append(healthy, desc)
		}
	}
	return healthy
}

// HealthCheck probes every provider concurrently with a trivial
// completion request and updates health flags from the results. Probes
// do not retry and do not count toward request statistics. The returned
// map carries the probe outcome per provider.
func (d *Dispatcher) HealthCheck(ctx context.Context) map[string]bool {
	d.mu.RLock()
	targets := make(map[string]providers.Provider, len(d.instances))
	for name, p := range d.instances {
		targets[name] = p
	}
	d.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]bool, len(targets))
	)
	for name, p := range targets {
		wg.Add(1)
		go func(name string, p providers.Provider) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()

			_, err := p.SendCompletion(probeCtx, &providers.Request{Prompt: "ping", MaxTokens: 1})
			healthy := err == nil

			d.tracker.SetHealthy(name, healthy)
			d.metrics.UpdateHealth(name, healthy)
			if !healthy {
				slog.Warn("health probe failed", "provider", name, "error", err)
			}

			mu.Lock()
			results[name] = healthy
			mu.Unlock()
		}(name, p)
	}
	wg.Wait()
	return results
}

// AddProvider registers a new provider under the active configuration
// and rebuilds the strategy over the grown set. The name must not be in
// use.
func (d *Dispatcher) AddProvider(desc providers.Descriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.instances[desc.Name]; exists {
		return fmt.Errorf("provider %q: %w", desc.Name, ErrProviderExists)
	}

	p, err := d.factory(desc)
	if err != nil {
		return fmt.Errorf("building provider %q: %w", desc.Name, err)
	}

	grown := append(append([]providers.Descriptor{}, d.descriptors...), desc)
	strategy, err := buildStrategy(d.cfg.Strategy, grown, d.cfg.CustomStrategy)
	if err != nil {
		_ = p.Close()
		return err
	}

	d.descriptors = grown
	d.instances[desc.Name] = p
	d.strategy = strategy
	d.tracker.Register(desc.Name)
	d.metrics.UpdateHealth(desc.Name, true)

	slog.Info("provider added", "provider", desc.Name, "providers", len(d.descriptors))
	return nil
}

// RemoveProvider deregisters a provider, closes its adapter and rebuilds
// the strategy over the shrunken set. The provider's statistics are
// dropped with it.
func (d *Dispatcher) RemoveProvider(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, exists := d.instances[name]
	if !exists {
		return fmt.Errorf("provider %q: %w", name, ErrProviderNotFound)
	}

	shrunk := make([]providers.Descriptor, 0, len(d.descriptors)-1)
	for _, desc := range d.descriptors {
		if desc.Name != name {
			shrunk = append(shrunk, desc)
		}
	}

	strategy, err := buildStrategy(d.cfg.Strategy, shrunk, d.cfg.CustomStrategy)
	if err != nil {
		return err
	}

	if err := p.Close(); err != nil {
		slog.Warn("closing removed provider", "provider", name, "error", err)
	}

	d.descriptors = shrunk
	delete(d.instances, name)
	d.strategy = strategy
	d.tracker.Remove(name)
	d.metrics.ForgetProvider(name)

	slog.Info("provider removed", "provider", name, "providers", len(d.descriptors))
	return nil
}

// GetStrategy returns the name of the active routing strategy.
func (d *Dispatcher) GetStrategy() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.strategy.GetName()
}

// Close releases every provider adapter.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for name, p := range d.instances {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing provider %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// attemptOutcome maps an attempt error to its metrics outcome label.
func attemptOutcome(err error) string {
	var te *providers.TimeoutError
	if errors.As(err, &te) {
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeFailure
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
