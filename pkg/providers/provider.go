package providers

import "context"

// Provider is the interface every provider adapter implements. It is the
// only contract the dispatcher relies on: one call, one normalized reply,
// typed errors on failure.
//
// SendCompletion must respect context cancellation and return promptly when
// the context's deadline expires. Implementations must be safe for
// concurrent use; the dispatcher may probe a provider from a health sweep
// while a request attempt is in flight.
//
// Example:
//
//	resp, err := provider.SendCompletion(ctx, &Request{Prompt: "Hello"})
//	if err != nil {
//	    var perr *ProviderError
//	    if errors.As(err, &perr) {
//	        log.Printf("provider %s failed with status %d", perr.Provider, perr.StatusCode)
//	    }
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion performs exactly one network call against the vendor
	// endpoint and returns the normalized response. It never retries;
	// retry policy belongs to the dispatcher.
	SendCompletion(ctx context.Context, req *Request) (*Response, error)

	// GetName returns the provider's configured name.
	GetName() string

	// GetDescriptor returns the descriptor this adapter was built from.
	GetDescriptor() Descriptor

	// Close releases the adapter's resources (idle HTTP connections).
	// After Close, the provider must not be used.
	Close() error
}
