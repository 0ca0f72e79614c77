package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"polaris-hq/polaris/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a Polaris configuration file.

Checks the configuration against the full rule set: strategy names,
provider uniqueness, required credentials and models, URL syntax, and
telemetry settings. All violations are reported at once.

Examples:
  # Validate the default config
  polaris validate

  # Validate a specific file
  polaris validate --config /etc/polaris/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("configuration invalid: %d problem(s)\n", len(verr.Errors))
			for _, f := range verr.Errors {
				fmt.Printf("  - %s: %s\n", f.Field, f.Message)
			}
			return fmt.Errorf("validation failed")
		}
		return err
	}

	fmt.Printf("configuration valid: %d provider(s), strategy %q\n",
		len(cfg.Providers), cfg.Balancer.Strategy)
	return nil
}
