/*
Package cli provides helpers shared by the aihub commands: output formatting,
a progress spinner for requests that walk the provider chain, signal-aware
contexts and exit codes.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, analysis); err != nil {
		return err
	}

Text output uses the value's String method when it has one.

Progress:

	spin := cli.NewSpinner(os.Stderr)
	spin.Start("asking providers")
	reply, err := gw.ChatCompletion(ctx, msg, nil)
	spin.Stop()

Signal Handling:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
