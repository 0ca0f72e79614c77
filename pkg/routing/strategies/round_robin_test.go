package strategies

import (
	"errors"
	"testing"

	"polaris-hq/polaris/pkg/providers"
)

func descs(names ...string) []providers.Descriptor {
	out := make([]providers.Descriptor, len(names))
	for i, name := range names {
		out[i] = providers.Descriptor{Name: name, Type: providers.TypeGeneric, Model: "test-model"}
	}
	return out
}

func TestRoundRobin_SelectProvider(t *testing.T) {
	tests := []struct {
		name      string
		available []providers.Descriptor
		calls     int
		want      []string
		wantErr   error
	}{
		{
			name:      "empty list",
			available: nil,
			calls:     1,
			wantErr:   ErrNoProviders,
		},
		{
			name:      "single provider repeats",
			available: descs("openai"),
			calls:     3,
			want:      []string{"openai", "openai", "openai"},
		},
		{
			name:      "rotation in order",
			available: descs("openai", "anthropic", "local"),
			calls:     3,
			want:      []string{"openai", "anthropic", "local"},
		},
		{
			name:      "wraps around",
			available: descs("openai", "anthropic"),
			calls:     5,
			want:      []string{"openai", "anthropic", "openai", "anthropic", "openai"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRoundRobin()
			for i := 0; i < tt.calls; i++ {
				got, err := s.SelectProvider(tt.available, nil)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("SelectProvider() error = %v, want %v", err, tt.wantErr)
					}
					return
				}
				if err != nil {
					t.Fatalf("SelectProvider() unexpected error: %v", err)
				}
				if got.Name != tt.want[i] {
					t.Errorf("call %d: got %q, want %q", i, got.Name, tt.want[i])
				}
			}
		})
	}
}

func TestRoundRobin_ListShrinks(t *testing.T) {
	s := NewRoundRobin()
	three := descs("a", "b", "c")

	// Advance the cursor past the length of the shrunken list.
	for i := 0; i < 2; i++ {
		if _, err := s.SelectProvider(three, nil); err != nil {
			t.Fatalf("SelectProvider() unexpected error: %v", err)
		}
	}

	one := descs("a")
	got, err := s.SelectProvider(one, nil)
	if err != nil {
		t.Fatalf("SelectProvider() unexpected error: %v", err)
	}
	if got.Name != "a" {
		t.Errorf("after shrink: got %q, want %q", got.Name, "a")
	}
}

func TestRoundRobin_Reset(t *testing.T) {
	s := NewRoundRobin()
	available := descs("a", "b")

	if _, err := s.SelectProvider(available, nil); err != nil {
		t.Fatalf("SelectProvider() unexpected error: %v", err)
	}
	s.Reset()

	got, err := s.SelectProvider(available, nil)
	if err != nil {
		t.Fatalf("SelectProvider() unexpected error: %v", err)
	}
	if got.Name != "a" {
		t.Errorf("after Reset: got %q, want %q", got.Name, "a")
	}
}

func TestRoundRobin_GetName(t *testing.T) {
	if got := NewRoundRobin().GetName(); got != "round-robin" {
		t.Errorf("GetName() = %q, want %q", got, "round-robin")
	}
}
