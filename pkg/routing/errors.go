package routing

import (
	"errors"
	"fmt"
	"strings"

	"polaris-hq/polaris/pkg/providers"
)

// UnknownProvider tags attempt errors that cannot be attributed to any
// provider. Such errors are kept in the aggregate failure but excluded
// from statistics, since there is no provider to charge them to.
const UnknownProvider = "unknown"

// Common routing errors that can be checked with errors.Is().
var (
	// ErrNoProvidersConfigured is returned when the provider set is empty.
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidStrategy is returned when an unknown strategy kind is configured.
	ErrInvalidStrategy = errors.New("invalid routing strategy")

	// ErrProviderExists is returned when AddProvider sees a duplicate name.
	ErrProviderExists = errors.New("provider already registered")

	// ErrProviderNotFound is returned when RemoveProvider misses.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAllAttemptsFailed is the sentinel matched by AggregateError.
	ErrAllAttemptsFailed = errors.New("all attempts failed")
)

// InvalidStrategyError is returned when the configured strategy kind is
// not recognized.
type InvalidStrategyError struct {
	// Strategy is the invalid strategy kind.
	Strategy string
}

// Error implements the error interface.
func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid routing strategy %q (available strategies: %s)",
		e.Strategy, strings.Join([]string{StrategyRoundRobin, StrategyFailover, StrategyWeighted, StrategyCustom}, ", "))
}

// Is implements error matching for errors.Is().
func (e *InvalidStrategyError) Is(target error) bool {
	return target == ErrInvalidStrategy
}

// AttemptError is one failed attempt, tagged with the provider it is
// attributed to. The dispatcher accumulates these across the retry loop
// to build the final aggregate failure.
type AttemptError struct {
	// Provider is the provider charged with the failure, or
	// UnknownProvider when the failure is not provider-attributable.
	Provider string

	// StatusCode is the vendor HTTP status code (0 if not applicable).
	StatusCode int

	// Message is the failure description.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *AttemptError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("attempt against %q failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("attempt against %q failed: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain traversal.
func (e *AttemptError) Unwrap() error {
	return e.Cause
}

// AggregateError is the terminal failure of a request whose attempt
// budget is spent. It carries every per-attempt error in order; none is
// ever dropped.
type AggregateError struct {
	// Attempts is the ordered list of per-attempt errors.
	Attempts []*AttemptError
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	if len(e.Attempts) == 0 {
		return "request failed with no attempts"
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("request failed after %d attempts (last: %s)", len(e.Attempts), last.Error())
}

// Is implements error matching for errors.Is().
func (e *AggregateError) Is(target error) bool {
	return target == ErrAllAttemptsFailed
}

// Unwrap returns the last attempt error for error chain traversal.
func (e *AggregateError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

// normalizeAttemptError converts an adapter or dispatcher failure into an
// AttemptError. Errors that carry no provider identity are tagged
// UnknownProvider.
func normalizeAttemptError(err error) *AttemptError {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae
	}

	var pe *providers.ProviderError
	if errors.As(err, &pe) {
		return &AttemptError{Provider: pe.Provider, StatusCode: pe.StatusCode, Message: pe.Message, Cause: err}
	}

	var auth *providers.AuthError
	if errors.As(err, &auth) {
		return &AttemptError{Provider: auth.Provider, StatusCode: auth.StatusCode, Message: "authentication failed", Cause: err}
	}

	var rate *providers.RateLimitError
	if errors.As(err, &rate) {
		return &AttemptError{Provider: rate.Provider, StatusCode: 429, Message: "rate limit exceeded", Cause: err}
	}

	var timeout *providers.TimeoutError
	if errors.As(err, &timeout) {
		// Timeouts carry no status code.
		return &AttemptError{Provider: timeout.Provider, Message: "request timed out", Cause: err}
	}

	var parse *providers.ParseError
	if errors.As(err, &parse) {
		return &AttemptError{Provider: parse.Provider, Message: "response parse failed", Cause: err}
	}

	return &AttemptError{Provider: UnknownProvider, Message: err.Error(), Cause: err}
}
