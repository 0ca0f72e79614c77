// Package routing provides test doubles for the routing package.
package routing

import (
	"context"
	"sync"
	"time"

	"polaris-hq/polaris/pkg/providers"
)

// MockProvider is a scriptable Provider implementation for testing. Each
// call consumes the next entry of the error script; once the script is
// exhausted, calls succeed. A nil script entry means success.
type MockProvider struct {
	mu     sync.Mutex
	desc   providers.Descriptor
	script []error
	delay  time.Duration
	calls  int
	closed bool
}

// NewMockProvider creates a mock provider with the given name.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		desc: providers.Descriptor{Name: name, Type: "mock", Model: "mock-model"},
	}
}

// Script sets the per-call error sequence. Entry i is returned by the
// i-th call; nil entries succeed.
func (m *MockProvider) Script(errs ...error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = errs
	return m
}

// Delay makes every call block for d before returning, honoring context
// cancellation.
func (m *MockProvider) Delay(d time.Duration) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// Calls returns the number of SendCompletion calls received.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SendCompletion plays the next script entry.
func (m *MockProvider) SendCompletion(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	m.mu.Lock()
	call := m.calls
	m.calls++
	var scripted error
	if call < len(m.script) {
		scripted = m.script[call]
	}
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if scripted != nil {
		return nil, scripted
	}
	return &providers.Response{
		ID:       "mock-response",
		Content:  "mock response",
		Model:    m.desc.Model,
		Provider: m.desc.Name,
	}, nil
}

// GetName returns the provider name.
func (m *MockProvider) GetName() string {
	return m.desc.Name
}

// GetDescriptor returns the provider descriptor.
func (m *MockProvider) GetDescriptor() providers.Descriptor {
	return m.desc
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
