// Package routing implements the Polaris dispatcher: the load balancer
// that routes completion requests across configured providers, retries
// failures with exponential backoff, and tracks per-provider health and
// performance statistics.
//
// # Request Flow
//
// A logical request runs a bounded attempt loop. Each attempt asks the
// configured strategy to pick a provider from the current provider list
// and statistics snapshot, races the adapter call against a per-attempt
// timeout, and records the outcome in the statistics tracker. A success
// returns immediately; a failure is appended to the ordered attempt-error
// list and, unless the attempt budget is spent, the loop sleeps for
// retryDelay * 2^attempt before trying again. When the budget is spent
// the request fails with an AggregateError carrying every per-attempt
// error in order.
//
//	balancer, err := routing.New(&routing.Config{
//	    Strategy:  routing.StrategyRoundRobin,
//	    Providers: descriptors,
//	})
//	if err != nil {
//	    return err
//	}
//	defer balancer.Close()
//
//	resp, err := balancer.Request(ctx, &providers.Request{Prompt: "Hello"})
//
// # Statistics and Health
//
// The dispatcher exclusively owns the statistics map. After every attempt
// it updates the selected provider's counters and recomputes the health
// flag from the success ratio. Health sweeps (HealthCheck, optionally
// scheduled through Sweeper) probe every provider concurrently and write
// observed health directly, bypassing the ratio.
//
// # Dynamic Provider Management
//
// AddProvider and RemoveProvider mutate the provider set at runtime. Both
// rebuild the strategy from scratch, because round-robin and weighted
// strategies cache state derived from the list; the rebuild trades a
// reset cursor for immunity to incremental-update bugs.
package routing
