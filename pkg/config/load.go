package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It expands ${VAR} references from the environment, applies default
// values, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Expand ${VAR} before parsing so credentials stay out of the file.
	data = expandEnvRefs(data)

	cfg := Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies POLARIS_* environment variable overrides. Environment variables
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file (expands ${VAR} references)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// envRefPattern matches ${VAR} references in raw YAML.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvRefs replaces ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvRefs(data []byte) []byte {
	return envRefPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(envRefPattern.FindSubmatch(match)[1])
		return []byte(os.Getenv(name))
	})
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format POLARIS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("POLARIS_BALANCER_STRATEGY"); val != "" {
		cfg.Balancer.Strategy = val
	}
	if val := os.Getenv("POLARIS_BALANCER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Balancer.Timeout = d
		}
	}
	if val := os.Getenv("POLARIS_BALANCER_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Balancer.MaxRetries = i
		}
	}
	if val := os.Getenv("POLARIS_BALANCER_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Balancer.RetryDelay = d
		}
	}
	if val := os.Getenv("POLARIS_BALANCER_HEALTH_SWEEP_SCHEDULE"); val != "" {
		cfg.Balancer.HealthSweepSchedule = val
	}

	if val := os.Getenv("POLARIS_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("POLARIS_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("POLARIS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("POLARIS_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}

	// Per-provider credential overrides, keyed by provider name.
	for i := range cfg.Providers {
		applyProviderEnvOverrides(&cfg.Providers[i])
	}
}

// applyProviderEnvOverrides applies POLARIS_PROVIDER_<NAME>_* overrides
// for a single provider. Hyphens in the provider name map to underscores.
func applyProviderEnvOverrides(p *ProviderConfig) {
	prefix := "POLARIS_PROVIDER_" + envKey(p.Name) + "_"

	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		p.APIKey = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		p.Model = val
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		p.BaseURL = val
	}
	if val := os.Getenv(prefix + "WEIGHT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			p.Weight = i
		}
	}
}

// envKey converts a provider name to its environment variable segment.
func envKey(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
