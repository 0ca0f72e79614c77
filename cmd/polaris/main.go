// Polaris is a multi-provider LLM request balancer.
//
// It routes text generation requests across a pool of LLM providers
// (OpenAI, Anthropic, OpenAI-compatible servers), providing:
//   - Pluggable routing strategies (round-robin, failover, weighted)
//   - Automatic retries with exponential backoff
//   - Per-provider statistics and health tracking
//   - Scheduled health sweeps across the provider pool
//
// Usage:
//
//	# Start the balancer with default configuration
//	polaris run
//
//	# Start with a custom configuration file
//	polaris run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	polaris validate --config /path/to/config.yaml
//
//	# Show version information
//	polaris version
package main

func main() {
	Execute()
}
