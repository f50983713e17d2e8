package main

import (
	"atomic-explorer/aihub/pkg/cli"

	"github.com/spf13/cobra"
)

var insightFlags struct {
	output string
}

var insightCmd = &cobra.Command{
	Use:   "insight <element>",
	Short: "Print a fun fact and common uses of an element",
	Long: `Ask the provider chain for a short fact sheet about an element.
Falls back to a generic fact sheet when no provider answers usefully.

Examples:
  aihub insight Gold
  aihub insight Xenon --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runInsight,
}

func init() {
	rootCmd.AddCommand(insightCmd)

	insightCmd.Flags().StringVarP(&insightFlags.output, "output", "o", "text", "output format: text, json")
}

func runInsight(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(insightFlags.output)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	spin := newSpinner(cmd.ErrOrStderr())
	spin.Start("looking up " + args[0])
	insight := s.gateway.ElementInsight(ctx, args[0])
	spin.Stop()

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), insight)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), insightView(insight))
}
