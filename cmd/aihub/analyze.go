package main

import (
	"atomic-explorer/aihub/pkg/cli"

	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	output string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <subject-a> <subject-b>",
	Short: "Analyze the reaction between two substances",
	Long: `Ask the provider chain whether two substances react and print the
structured analysis. When no provider produces a usable answer the neutral
fallback analysis is printed; the command still succeeds.

Examples:
  aihub analyze Na Cl
  aihub analyze "Hydrogen" "Oxygen" --output json`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.output, "output", "o", "text", "output format: text, json")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(analyzeFlags.output)
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
	spin.Start("analyzing " + args[0] + " + " + args[1])
	analysis := s.gateway.StructuredAnalysis(ctx, args[0], args[1])
	spin.Stop()

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), analysis)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), analysisView(analysis))
}
