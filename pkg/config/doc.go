// Package config loads and validates Polaris configuration.
//
// Configuration comes from three sources, in increasing precedence:
//
//  1. A YAML file (LoadConfig), with ${VAR} expansion for credentials.
//  2. POLARIS_* environment variable overrides (LoadConfigWithEnvOverrides).
//  3. Pure environment auto-configuration (FromEnv), which detects
//     well-known provider credentials like OPENAI_API_KEY and needs no
//     file at all.
//
// A minimal configuration file:
//
//	balancer:
//	  strategy: round-robin
//	  max_retries: 3
//	providers:
//	  - name: openai
//	    api_key: ${OPENAI_API_KEY}
//	    model: gpt-4o-mini
//	  - name: anthropic
//	    api_key: ${ANTHROPIC_API_KEY}
//	    model: claude-3-5-haiku-latest
//
// The Watcher type reloads the provider set when the file changes on
// disk, so operators can rotate credentials or reweight providers without
// restarting.
package config
