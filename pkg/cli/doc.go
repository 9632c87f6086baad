/*
Package cli provides command-line helpers used by the gateway command.

Output Formatting:

Commands that print results support text, JSON and YAML:

	format, err := cli.ParseOutputFormat(flag)
	if err != nil {
		return err
	}
	formatter := cli.NewFormatter(format)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
