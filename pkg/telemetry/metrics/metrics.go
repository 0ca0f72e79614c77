// Package metrics exposes Prometheus metrics for the Polaris balancer.
//
// Metrics:
//   - polaris_balancer_attempts_total: attempts by provider and outcome
//   - polaris_balancer_attempt_duration_seconds: attempt latency by provider
//   - polaris_balancer_provider_health: health flag (1=healthy, 0=unhealthy)
//   - polaris_balancer_retries_total: backoff delays taken before retries
//   - polaris_balancer_requests_total: logical requests by terminal outcome
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"polaris-hq/polaris/pkg/config"
)

// Attempt outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// Collector owns the balancer's Prometheus metrics. A nil *Collector is
// valid and records nothing, so the dispatcher never needs to branch on
// whether metrics are enabled.
type Collector struct {
	registry *prometheus.Registry

	// Attempts by provider and outcome
	attempts *prometheus.CounterVec

	// Attempt latency histogram by provider
	duration *prometheus.HistogramVec

	// Provider health flag (1=healthy, 0=unhealthy)
	health *prometheus.GaugeVec

	// Backoff delays taken before retries
	retries prometheus.Counter

	// Logical requests by terminal outcome
	requests *prometheus.CounterVec
}

// NewCollector creates and registers the balancer metrics with the given
// registry. If registry is nil, a private registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}
	subsystem := cfg.Subsystem
	if subsystem == "" {
		subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		registry: registry,

		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "attempts_total",
				Help:      "Total provider attempts by outcome",
			},
			[]string{"provider", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "attempt_duration_seconds",
				Help:      "Provider attempt latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"provider"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "retries_total",
				Help:      "Total backoff delays taken before retry attempts",
			},
		),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total logical requests by terminal outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		c.attempts,
		c.duration,
		c.health,
		c.retries,
		c.requests,
	)

	return c
}

// RecordAttempt records one provider attempt and its latency.
func (c *Collector) RecordAttempt(provider, outcome string, seconds float64) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(provider, outcome).Inc()
	c.duration.WithLabelValues(provider).Observe(seconds)
}

// RecordRequest records the terminal outcome of one logical request.
func (c *Collector) RecordRequest(outcome string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(outcome).Inc()
}

// RecordRetry records one backoff delay taken before a retry attempt.
func (c *Collector) RecordRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// UpdateHealth updates the health gauge for a provider.
func (c *Collector) UpdateHealth(provider string, healthy bool) {
	if c == nil {
		return
	}
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.health.WithLabelValues(provider).Set(value)
}

// ForgetProvider drops all per-provider series for a removed provider so
// stale labels do not linger in scrapes.
func (c *Collector) ForgetProvider(provider string) {
	if c == nil {
		return
	}
	c.attempts.DeletePartialMatch(prometheus.Labels{"provider": provider})
	c.duration.DeleteLabelValues(provider)
	c.health.DeleteLabelValues(provider)
}

// Handler returns an HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
