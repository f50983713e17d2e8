package main

import (
	"fmt"

	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/providers"

	"github.com/spf13/cobra"
)

var validateFlags struct {
	requireKey bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration file and environment overrides, validate them
and print a summary. No requests are sent.

Examples:
  aihub validate --config aihub.yaml
  aihub validate --require-key`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.requireKey, "require-key", false, "fail when no API key is configured")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := providers.NewRegistry(cfg.Gateway.Models...)
	if err != nil {
		return cli.NewConfigError("gateway.models", "invalid provider list", err)
	}

	hasKey := cfg.Gateway.APIKey != ""
	if validateFlags.requireKey && !hasKey {
		return cli.NewConfigError("gateway.api_key", "no API key configured", nil)
	}

	out := cmd.OutOrStdout()
	source := cfgFile
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(out, "✓ Configuration valid (%s)\n", source)
	fmt.Fprintf(out, "  Providers:  %d\n", registry.Len())
	fmt.Fprintf(out, "  Base URL:   %s\n", cfg.Gateway.BaseURL)
	fmt.Fprintf(out, "  Listen:     %s\n", cfg.Server.ListenAddress)
	if cfg.Server.TLS.Enabled {
		fmt.Fprintf(out, "  TLS:        %s (min %s)\n", cfg.Server.TLS.CertFile, cfg.Server.TLS.MinVersion)
	}
	if hasKey {
		fmt.Fprintln(out, "  API key:    configured")
	} else {
		fmt.Fprintln(out, "  API key:    missing (requests will fail until one is set)")
	}
	return nil
}
