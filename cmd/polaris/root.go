package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "polaris",
	Short: "Polaris - multi-provider LLM request balancer",
	Long: `Polaris routes text generation requests across a pool of LLM providers.

It balances load across OpenAI, Anthropic and OpenAI-compatible endpoints,
providing:
  - Pluggable routing strategies (round-robin, failover, weighted)
  - Automatic retries with exponential backoff
  - Per-provider statistics and health tracking
  - Scheduled health sweeps across the provider pool`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
