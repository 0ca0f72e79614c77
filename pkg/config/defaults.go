package config

import "time"

// Default values for configuration fields.
const (
	// Balancer defaults
	DefaultStrategy   = "round-robin"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "polaris"
	DefaultMetricsSubsystem     = "balancer"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It is called by LoadConfig before validation; callers constructing a
// Config in code can call it directly.
func ApplyDefaults(cfg *Config) {
	if cfg.Balancer.Strategy == "" {
		cfg.Balancer.Strategy = DefaultStrategy
	}
	if cfg.Balancer.Timeout == 0 {
		cfg.Balancer.Timeout = DefaultTimeout
	}
	if cfg.Balancer.MaxRetries == 0 {
		cfg.Balancer.MaxRetries = DefaultMaxRetries
	}
	if cfg.Balancer.RetryDelay == 0 {
		cfg.Balancer.RetryDelay = DefaultRetryDelay
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
