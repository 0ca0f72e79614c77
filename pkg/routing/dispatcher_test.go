package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	mockrouting "polaris-hq/polaris/internal/routing"
	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/routing/strategies"
)

// testPool builds a dispatcher over named mock providers with fast retry
// timing. The returned map exposes the mocks for scripting and call
// assertions.
func testPool(t *testing.T, cfg Config, names ...string) (*Dispatcher, map[string]*mockrouting.MockProvider) {
	t.Helper()

	mocks := make(map[string]*mockrouting.MockProvider, len(names))
	for _, name := range names {
		mocks[name] = mockrouting.NewMockProvider(name)
		cfg.Providers = append(cfg.Providers, providers.Descriptor{Name: name, Type: "mock", Model: "mock-model"})
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}

	factory := func(desc providers.Descriptor) (providers.Provider, error) {
		if m, ok := mocks[desc.Name]; ok {
			return m, nil
		}
		m := mockrouting.NewMockProvider(desc.Name)
		mocks[desc.Name] = m
		return m, nil
	}

	d, err := NewWithFactory(cfg, factory)
	if err != nil {
		t.Fatalf("NewWithFactory() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, mocks
}

func TestNewWithFactory_NoProviders(t *testing.T) {
	_, err := NewWithFactory(Config{}, func(providers.Descriptor) (providers.Provider, error) {
		return mockrouting.NewMockProvider("x"), nil
	})
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Fatalf("error = %v, want %v", err, ErrNoProvidersConfigured)
	}
}

func TestNewWithFactory_DuplicateNames(t *testing.T) {
	cfg := Config{
		Providers: []providers.Descriptor{{Name: "p"}, {Name: "p"}},
	}
	_, err := NewWithFactory(cfg, func(desc providers.Descriptor) (providers.Provider, error) {
		return mockrouting.NewMockProvider(desc.Name), nil
	})
	if !errors.Is(err, ErrProviderExists) {
		t.Fatalf("error = %v, want %v", err, ErrProviderExists)
	}
}

func TestNewWithFactory_InvalidStrategy(t *testing.T) {
	cfg := Config{
		Strategy:  "fastest",
		Providers: []providers.Descriptor{{Name: "p"}},
	}
	_, err := NewWithFactory(cfg, func(desc providers.Descriptor) (providers.Provider, error) {
		return mockrouting.NewMockProvider(desc.Name), nil
	})
	if !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidStrategy)
	}
}

func TestNewWithFactory_CustomRequiresFunc(t *testing.T) {
	cfg := Config{
		Strategy:  StrategyCustom,
		Providers: []providers.Descriptor{{Name: "p"}},
	}
	_, err := NewWithFactory(cfg, func(desc providers.Descriptor) (providers.Provider, error) {
		return mockrouting.NewMockProvider(desc.Name), nil
	})
	if !errors.Is(err, strategies.ErrNilSelectFunc) {
		t.Fatalf("error = %v, want %v", err, strategies.ErrNilSelectFunc)
	}
}

func TestRequest_RetryThenSucceed(t *testing.T) {
	d, mocks := testPool(t, Config{MaxRetries: 3}, "p")
	mocks["p"].Script(&providers.ProviderError{Provider: "p", StatusCode: 500, Message: "flaky"}, nil)

	resp, err := d.Request(context.Background(), &providers.Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Request() unexpected error: %v", err)
	}
	if resp.Provider != "p" {
		t.Errorf("Provider = %q, want %q", resp.Provider, "p")
	}
	if got := mocks["p"].Calls(); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}

	s := d.GetStats()["p"]
	if s.TotalRequests != 2 || s.SuccessfulRequests != 1 || s.FailedRequests != 1 {
		t.Errorf("stats = %d/%d/%d, want 2/1/1",
			s.TotalRequests, s.SuccessfulRequests, s.FailedRequests)
	}
	// One of two attempts succeeded, which is not above the 50% bar.
	if s.IsHealthy {
		t.Error("provider at exactly 50% success must be unhealthy")
	}
}

func TestRequest_BackoffTiming(t *testing.T) {
	base := 80 * time.Millisecond
	tests := []struct {
		name     string
		failures int
		// Sum of the exponential delays taken before each retry, in
		// multiples of the base delay: 1 before the 2nd attempt, 2
		// before the 3rd.
		wantUnits int
	}{
		{name: "SucceedOnSecondAttempt", failures: 1, wantUnits: 1},
		{name: "SucceedOnThirdAttempt", failures: 2, wantUnits: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mocks := testPool(t, Config{MaxRetries: 3, RetryDelay: base}, "p")

			script := make([]error, 0, tt.failures+1)
			for i := 0; i < tt.failures; i++ {
				script = append(script, &providers.ProviderError{Provider: "p", StatusCode: 500, Message: "flaky"})
			}
			script = append(script, nil)
			mocks["p"].Script(script...)

			start := time.Now()
			_, err := d.Request(context.Background(), &providers.Request{Prompt: "hello"})
			elapsed := time.Since(start)
			if err != nil {
				t.Fatalf("Request() unexpected error: %v", err)
			}

			if got := mocks["p"].Calls(); got != tt.failures+1 {
				t.Errorf("provider calls = %d, want %d", got, tt.failures+1)
			}
			min := time.Duration(tt.wantUnits) * base
			max := time.Duration(tt.wantUnits+1) * base
			if elapsed < min || elapsed >= max {
				t.Errorf("elapsed = %v, want within [%v, %v)", elapsed, min, max)
			}
		})
	}
}

func TestRequest_AllAttemptsFail(t *testing.T) {
	d, mocks := testPool(t, Config{MaxRetries: 3}, "p")
	down := &providers.ProviderError{Provider: "p", StatusCode: 503, Message: "down"}
	mocks["p"].Script(down, down, down)

	_, err := d.Request(context.Background(), &providers.Request{Prompt: "hello"})
	if !errors.Is(err, ErrAllAttemptsFailed) {
		t.Fatalf("error = %v, want %v", err, ErrAllAttemptsFailed)
	}

	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatal("error is not an AggregateError")
	}
	if len(agg.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(agg.Attempts))
	}
	for i, attempt := range agg.Attempts {
		if attempt.Provider != "p" {
			t.Errorf("attempt %d attributed to %q, want %q", i, attempt.Provider, "p")
		}
	}

	s := d.GetStats()["p"]
	if s.FailedRequests != 3 || s.SuccessfulRequests != 0 {
		t.Errorf("stats = %d failed / %d successful, want 3/0", s.FailedRequests, s.SuccessfulRequests)
	}
	if s.IsHealthy {
		t.Error("provider with only failures must be unhealthy")
	}
}

func TestRequest_RoundRobinRotation(t *testing.T) {
	d, mocks := testPool(t, Config{Strategy: StrategyRoundRobin}, "a", "b")

	for i := 0; i < 4; i++ {
		if _, err := d.Request(context.Background(), &providers.Request{Prompt: "hi"}); err != nil {
			t.Fatalf("Request() unexpected error: %v", err)
		}
	}

	if mocks["a"].Calls() != 2 || mocks["b"].Calls() != 2 {
		t.Errorf("calls = a:%d b:%d, want 2 each", mocks["a"].Calls(), mocks["b"].Calls())
	}
}

func TestRequest_SelectionFailureTaggedUnknown(t *testing.T) {
	noPick := func(available []providers.Descriptor) (providers.Descriptor, error) {
		return providers.Descriptor{}, errors.New("nothing suitable")
	}
	d, mocks := testPool(t, Config{Strategy: StrategyCustom, CustomStrategy: noPick, MaxRetries: 2}, "p")

	_, err := d.Request(context.Background(), &providers.Request{Prompt: "hi"})
	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("error = %v, want an AggregateError", err)
	}
	if len(agg.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(agg.Attempts))
	}
	for _, attempt := range agg.Attempts {
		if attempt.Provider != UnknownProvider {
			t.Errorf("attempt attributed to %q, want %q", attempt.Provider, UnknownProvider)
		}
	}

	// Selection failures never reach a provider or its statistics.
	if mocks["p"].Calls() != 0 {
		t.Errorf("provider calls = %d, want 0", mocks["p"].Calls())
	}
	if s := d.GetStats()["p"]; s.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", s.TotalRequests)
	}
}

func TestRequest_AttemptTimeout(t *testing.T) {
	d, mocks := testPool(t, Config{MaxRetries: 1}, "slow")
	mocks["slow"].Delay(500 * time.Millisecond)

	cfgTimeout := 30 * time.Millisecond
	d.mu.Lock()
	d.descriptors[0].Timeout = cfgTimeout
	d.mu.Unlock()

	start := time.Now()
	_, err := d.Request(context.Background(), &providers.Request{Prompt: "hi"})
	elapsed := time.Since(start)

	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("error = %v, want an AggregateError", err)
	}
	var te *providers.TimeoutError
	if !errors.As(agg.Attempts[0], &te) {
		t.Fatalf("attempt error = %v, want a TimeoutError", agg.Attempts[0])
	}
	if elapsed >= 500*time.Millisecond {
		t.Errorf("request waited %v, the attempt timeout did not fire", elapsed)
	}

	// The abandoned call finishing later must not alter statistics.
	time.Sleep(600 * time.Millisecond)
	s := d.GetStats()["slow"]
	if s.TotalRequests != 1 || s.FailedRequests != 1 {
		t.Errorf("stats = %d/%d failed, want 1/1", s.TotalRequests, s.FailedRequests)
	}
}

func TestRequest_ParentCancellation(t *testing.T) {
	d, mocks := testPool(t, Config{MaxRetries: 3}, "slow")
	mocks["slow"].Delay(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := d.Request(ctx, &providers.Request{Prompt: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}

	// Cancellation is not a provider failure.
	if s := d.GetStats()["slow"]; s.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", s.TotalRequests)
	}
}

func TestDispatcher_AddProvider(t *testing.T) {
	d, mocks := testPool(t, Config{}, "a")

	if err := d.AddProvider(providers.Descriptor{Name: "a"}); !errors.Is(err, ErrProviderExists) {
		t.Fatalf("duplicate add error = %v, want %v", err, ErrProviderExists)
	}

	if err := d.AddProvider(providers.Descriptor{Name: "b", Type: "mock", Model: "mock-model"}); err != nil {
		t.Fatalf("AddProvider() unexpected error: %v", err)
	}

	if _, ok := d.GetStats()["b"]; !ok {
		t.Error("added provider has no stats entry")
	}
	if len(d.GetHealthyProviders()) != 2 {
		t.Errorf("healthy providers = %d, want 2", len(d.GetHealthyProviders()))
	}

	// Round-robin over the grown pool reaches the new provider.
	for i := 0; i < 2; i++ {
		if _, err := d.Request(context.Background(), &providers.Request{Prompt: "hi"}); err != nil {
			t.Fatalf("Request() unexpected error: %v", err)
		}
	}
	if mocks["b"].Calls() != 1 {
		t.Errorf("new provider calls = %d, want 1", mocks["b"].Calls())
	}
}

func TestDispatcher_RemoveProvider(t *testing.T) {
	d, mocks := testPool(t, Config{}, "a", "b")

	if err := d.RemoveProvider("ghost"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("unknown remove error = %v, want %v", err, ErrProviderNotFound)
	}

	if err := d.RemoveProvider("b"); err != nil {
		t.Fatalf("RemoveProvider() unexpected error: %v", err)
	}
	if !mocks["b"].Closed() {
		t.Error("removed provider was not closed")
	}
	if _, ok := d.GetStats()["b"]; ok {
		t.Error("removed provider still has a stats entry")
	}

	// All traffic lands on the survivor.
	for i := 0; i < 3; i++ {
		if _, err := d.Request(context.Background(), &providers.Request{Prompt: "hi"}); err != nil {
			t.Fatalf("Request() unexpected error: %v", err)
		}
	}
	if mocks["b"].Calls() != 0 {
		t.Errorf("removed provider calls = %d, want 0", mocks["b"].Calls())
	}
	if mocks["a"].Calls() != 3 {
		t.Errorf("remaining provider calls = %d, want 3", mocks["a"].Calls())
	}
}

func TestDispatcher_HealthCheck(t *testing.T) {
	d, mocks := testPool(t, Config{Strategy: StrategyFailover}, "up", "down")
	mocks["down"].Script(errors.New("connection refused"))

	results := d.HealthCheck(context.Background())
	if !results["up"] || results["down"] {
		t.Fatalf("results = %v, want up:true down:false", results)
	}

	healthy := d.GetHealthyProviders()
	if len(healthy) != 1 || healthy[0].Name != "up" {
		t.Fatalf("GetHealthyProviders() = %v, want only %q", healthy, "up")
	}

	// Probes are not requests and never touch the counters.
	for name, s := range d.GetStats() {
		if s.TotalRequests != 0 {
			t.Errorf("provider %q: TotalRequests = %d after probe, want 0", name, s.TotalRequests)
		}
	}
}

func TestDispatcher_GetStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
	}{
		{strategy: "", want: "round-robin"},
		{strategy: StrategyFailover, want: "failover"},
		{strategy: StrategyWeighted, want: "weighted"},
	}
	for _, tt := range tests {
		d, _ := testPool(t, Config{Strategy: tt.strategy}, "p")
		if got := d.GetStrategy(); got != tt.want {
			t.Errorf("GetStrategy() = %q, want %q", got, tt.want)
		}
	}
}

func TestDispatcher_Close(t *testing.T) {
	d, mocks := testPool(t, Config{}, "a", "b")

	if err := d.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	for name, m := range mocks {
		if !m.Closed() {
			t.Errorf("provider %q not closed", name)
		}
	}
}
