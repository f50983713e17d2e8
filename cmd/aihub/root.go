package main

import (
	"fmt"
	"os"

	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "aihub",
	Short: "aihub - failover AI gateway for Atomic Explorer",
	Long: `aihub routes chat, reaction analysis and element insight requests through
a ranked list of OpenAI-compatible models. Each request tries the models in
order and returns the first usable answer.

The API key is read from AIHUB_API_KEY or OPENROUTER_API_KEY (a .env file in
the working directory is loaded automatically) or from gateway.api_key in the
config file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return cli.NewConfigError("env-file", "failed to load env file", err)
		}
		return nil
	},
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress spinner")
}
