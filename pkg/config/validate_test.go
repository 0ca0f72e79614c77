package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// validBase returns a configuration that passes validation; tests mutate
// one field at a time.
func validBase() *Config {
	cfg := &Config{}
	cfg.Providers = []ProviderConfig{
		{Name: "openai-primary", Type: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:      "unknown strategy",
			mutate:    func(cfg *Config) { cfg.Balancer.Strategy = "fastest" },
			wantField: "balancer.strategy",
		},
		{
			name:      "non-positive timeout",
			mutate:    func(cfg *Config) { cfg.Balancer.Timeout = 0 },
			wantField: "balancer.timeout",
		},
		{
			name:      "zero retries",
			mutate:    func(cfg *Config) { cfg.Balancer.MaxRetries = 0 },
			wantField: "balancer.max_retries",
		},
		{
			name:      "negative retry delay",
			mutate:    func(cfg *Config) { cfg.Balancer.RetryDelay = -time.Second },
			wantField: "balancer.retry_delay",
		},
		{
			name:      "no providers",
			mutate:    func(cfg *Config) { cfg.Providers = nil },
			wantField: "providers",
		},
		{
			name: "empty provider name",
			mutate: func(cfg *Config) {
				cfg.Providers[0].Name = ""
			},
			wantField: "providers[0].name",
		},
		{
			name: "duplicate provider names",
			mutate: func(cfg *Config) {
				cfg.Providers = append(cfg.Providers, cfg.Providers[0])
			},
			wantField: "providers[1].name",
		},
		{
			name:      "missing model",
			mutate:    func(cfg *Config) { cfg.Providers[0].Model = "" },
			wantField: "providers[0].model",
		},
		{
			name:      "unknown provider type",
			mutate:    func(cfg *Config) { cfg.Providers[0].Type = "cohere" },
			wantField: "providers[0].type",
		},
		{
			name:      "invalid base url",
			mutate:    func(cfg *Config) { cfg.Providers[0].BaseURL = "not a url" },
			wantField: "providers[0].base_url",
		},
		{
			name:      "negative weight",
			mutate:    func(cfg *Config) { cfg.Providers[0].Weight = -1 },
			wantField: "providers[0].weight",
		},
		{
			name:      "negative provider timeout",
			mutate:    func(cfg *Config) { cfg.Providers[0].Timeout = -time.Second },
			wantField: "providers[0].timeout",
		},
		{
			name:      "unknown log level",
			mutate:    func(cfg *Config) { cfg.Telemetry.Logging.Level = "trace" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "unknown log format",
			mutate:    func(cfg *Config) { cfg.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want a ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validBase()
	cfg.Balancer.Strategy = "fastest"
	cfg.Providers[0].Model = ""
	cfg.Telemetry.Logging.Level = "trace"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want a ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("errors = %d, want all 3 reported together", len(verr.Errors))
	}
	if !strings.Contains(verr.Error(), "3 errors") {
		t.Errorf("Error() = %q, want the error count", verr.Error())
	}
}
