package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"github.com/wricardo/mcp-training/martianrobots/output"
)

// runCLI runs batch mode when a file is given and the interactive loop otherwise
func runCLI(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(output.ColorMode(settings.Color), cmd.Bool("verbose"))
	opts := settings.InputOptions()

	if path := cmd.String("file"); path != "" {
		return runBatchFile(path, opts, printer)
	}
	return runInteractive(os.Stdin, opts, printer)
}

// runBatchFile runs one instruction file. Any failure is printed once and
// no partial output is produced.
func runBatchFile(path string, opts input.Options, printer *output.Printer) error {
	batch, err := input.ReadFile(path, opts)
	if err != nil {
		printer.PrintError(err)
		return errReported
	}
	return runBatch(batch, printer)
}

func runBatch(batch *engine.Batch, printer *output.Printer) error {
	reports, err := engine.Run(batch)
	return printOutcome(printer, reports, err)
}

// printOutcome prints either the run error or the reports. Both failures,
// including having nothing to print, are reported once as errReported.
func printOutcome(printer *output.Printer, reports []string, err error) error {
	if err == nil {
		err = printer.PrintReports(reports)
	}
	if err != nil {
		printer.PrintError(err)
		return errReported
	}
	return nil
}

// runInteractive reads batches separated by blank lines until EOF. Each batch
// runs on a fresh grid; a failed batch is reported and the loop continues.
func runInteractive(r io.Reader, opts input.Options, printer *output.Printer) error {
	printer.PrintHelp()
	printer.PrintPrompt()

	scanner := input.NewScanner(r, opts)
	for scanner.Next() {
		if err := scanner.Err(); err != nil {
			printer.PrintError(err)
		} else {
			runBatch(scanner.Batch(), printer)
		}
		printer.PrintPrompt()
	}
	return nil
}
