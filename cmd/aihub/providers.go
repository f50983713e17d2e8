package main

import (
	"atomic-explorer/aihub/pkg/cli"

	"github.com/spf13/cobra"
)

var providersFlags struct {
	output string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the provider chain in failover order",
	Long: `Print the configured models in the order they are tried. No requests
are sent.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVarP(&providersFlags.output, "output", "o", "text", "output format: text, json")
}

func runProviders(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(providersFlags.output)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	list := newProviderList(s.gateway.Registry(), s.gateway.HasCredential())
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), list)
}
