package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"polaris-hq/polaris/pkg/config"
	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/routing"
	"polaris-hq/polaris/pkg/telemetry/logging"
	"polaris-hq/polaris/pkg/telemetry/metrics"
)

var runFlags struct {
	fromEnv  bool
	logLevel string
	strategy string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Polaris balancer",
	Long: `Start the Polaris balancer with the specified configuration.

The balancer builds the configured provider pool, starts the metrics
endpoint and the scheduled health sweeper, and watches the configuration
file for provider changes.

Examples:
  # Start with default config
  polaris run

  # Start with custom config
  polaris run --config /etc/polaris/config.yaml

  # Build the provider pool from environment variables
  polaris run --from-env

  # Validate config without starting
  polaris run --dry-run`,
	RunE: runBalancer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.fromEnv, "from-env", false, "build providers from environment variables instead of a config file")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.strategy, "strategy", "", "override routing strategy (round-robin, failover, weighted)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runBalancer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if runFlags.strategy != "" {
		cfg.Balancer.Strategy = runFlags.strategy
	}

	if err := logging.Init(cfg.Telemetry.Logging); err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		startMetricsServer(ctx, cfg, collector)
	}

	balancer, err := routing.New(routing.Config{
		Strategy:   cfg.Balancer.Strategy,
		Providers:  cfg.Descriptors(),
		Timeout:    cfg.Balancer.Timeout,
		MaxRetries: cfg.Balancer.MaxRetries,
		RetryDelay: cfg.Balancer.RetryDelay,
		Metrics:    collector,
	})
	if err != nil {
		return err
	}
	defer balancer.Close()

	sweeper := routing.NewSweeper(balancer, cfg.Balancer.HealthSweepSchedule)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}

	if !runFlags.fromEnv {
		go watchConfig(ctx, balancer)
	}

	slog.Info("polaris started",
		"strategy", balancer.GetStrategy(),
		"providers", len(cfg.Providers),
	)

	<-ctx.Done()
	slog.Info("shutting down")
	sweeper.Stop()
	return nil
}

// loadRunConfig loads configuration from the config file or, with
// --from-env, from the process environment.
func loadRunConfig() (*config.Config, error) {
	if runFlags.fromEnv {
		cfg := config.FromEnv()
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// startMetricsServer serves the Prometheus endpoint in the background
// and shuts it down when ctx is cancelled.
func startMetricsServer(ctx context.Context, cfg *config.Config, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())

	srv := &http.Server{
		Addr:    cfg.Telemetry.Metrics.ListenAddress,
		Handler: mux,
	}

	go func() {
		slog.Info("metrics endpoint listening",
			"address", cfg.Telemetry.Metrics.ListenAddress,
			"path", cfg.Telemetry.Metrics.Path,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// watchConfig watches the configuration file and applies provider pool
// changes to the running balancer. Strategy and balancer tuning changes
// require a restart and are only logged.
func watchConfig(ctx context.Context, balancer routing.Balancer) {
	watcher := config.NewWatcher(cfgFile)
	err := watcher.Watch(ctx, func() error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}
		return applyProviderChanges(balancer, cfg.Descriptors())
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("config watcher stopped", "error", err)
	}
}

// applyProviderChanges diffs the desired provider set against the
// balancer's current pool and adds or removes providers to match.
func applyProviderChanges(balancer routing.Balancer, desired []providers.Descriptor) error {
	current := balancer.GetStats()

	desiredNames := make(map[string]struct{}, len(desired))
	for _, desc := range desired {
		desiredNames[desc.Name] = struct{}{}
		if _, exists := current[desc.Name]; !exists {
			if err := balancer.AddProvider(desc); err != nil {
				return err
			}
		}
	}

	for name := range current {
		if _, keep := desiredNames[name]; !keep {
			if err := balancer.RemoveProvider(name); err != nil {
				return err
			}
		}
	}
	return nil
}
