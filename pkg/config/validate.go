package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "balancer.strategy").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// validStrategies are the strategy kinds expressible in configuration.
var validStrategies = map[string]bool{
	"round-robin": true,
	"failover":    true,
	"weighted":    true,
	"custom":      true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "text": true,
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together; it returns nil when the configuration
// is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	if !validStrategies[cfg.Balancer.Strategy] {
		errs = append(errs, FieldError{
			Field:   "balancer.strategy",
			Message: fmt.Sprintf("unknown strategy %q (valid: round-robin, failover, weighted, custom)", cfg.Balancer.Strategy),
		})
	}
	if cfg.Balancer.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "balancer.timeout",
			Message: "must be positive",
		})
	}
	if cfg.Balancer.MaxRetries < 1 {
		errs = append(errs, FieldError{
			Field:   "balancer.max_retries",
			Message: "must be at least 1",
		})
	}
	if cfg.Balancer.RetryDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "balancer.retry_delay",
			Message: "must not be negative",
		})
	}

	if len(cfg.Providers) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider is required",
		})
	}

	seen := make(map[string]bool, len(cfg.Providers))
	for i, p := range cfg.Providers {
		field := fmt.Sprintf("providers[%d]", i)

		if p.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "name is required"})
		} else if seen[p.Name] {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate provider name %q", p.Name),
			})
		}
		seen[p.Name] = true

		if p.Model == "" {
			errs = append(errs, FieldError{Field: field + ".model", Message: "model is required"})
		}
		if p.Type != "" && p.Type != "openai" && p.Type != "anthropic" && p.Type != "generic" {
			errs = append(errs, FieldError{
				Field:   field + ".type",
				Message: fmt.Sprintf("unknown provider type %q (valid: openai, anthropic, generic)", p.Type),
			})
		}
		if p.BaseURL != "" {
			if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   field + ".base_url",
					Message: fmt.Sprintf("invalid URL %q", p.BaseURL),
				})
			}
		}
		if p.Weight < 0 {
			errs = append(errs, FieldError{Field: field + ".weight", Message: "must not be negative"})
		}
		if p.Timeout < 0 {
			errs = append(errs, FieldError{Field: field + ".timeout", Message: "must not be negative"})
		}
	}

	if !validLogLevels[cfg.Telemetry.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", cfg.Telemetry.Logging.Level),
		})
	}
	if !validLogFormats[cfg.Telemetry.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (valid: json, text)", cfg.Telemetry.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
