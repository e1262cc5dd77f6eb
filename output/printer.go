// Package output writes simulation reports, errors and the interactive help
// to a terminal or any other writer.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiPrompt = "\x1b[30;43m"
)

// ColorMode selects when ANSI colours are written
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrEmptyOutput is returned when there is nothing to print
var ErrEmptyOutput = errors.New("013 - No output object to show")

// Printer formats robot reports for humans
type Printer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	verbose bool
}

// NewPrinter creates a printer writing to stdout and stderr
func NewPrinter(mode ColorMode, verbose bool) *Printer {
	color := useColor(mode, os.Stdout)
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)
	if color {
		out, errOut = colorable.NewColorableStdout(), colorable.NewColorableStderr()
	}
	return &Printer{out: out, err: errOut, color: color, verbose: verbose}
}

// NewWriterPrinter creates a printer over arbitrary writers
func NewWriterPrinter(out, errOut io.Writer, mode ColorMode, verbose bool) *Printer {
	return &Printer{out: out, err: errOut, color: useColor(mode, out), verbose: verbose}
}

// PrintReports writes one report per line
func (p *Printer) PrintReports(reports []string) error {
	if len(reports) == 0 {
		return ErrEmptyOutput
	}
	for _, line := range reports {
		fmt.Fprintln(p.out, p.paint(ansiGreen, line))
	}
	return nil
}

// PrintSurface writes the rendered grid, top row first
func (p *Printer) PrintSurface(result *engine.Result) {
	for _, row := range result.Surface {
		fmt.Fprintln(p.out, p.paint(ansiYellow, row))
	}
}

// PrintError reports an error once. In verbose mode the error's type is
// written as well.
func (p *Printer) PrintError(err error) {
	fmt.Fprintln(p.err, p.paint(ansiRed, "ERROR: "+err.Error()))
	if p.verbose {
		fmt.Fprintln(p.err, p.paint(ansiRed, fmt.Sprintf("Detail: %#v", err)))
	}
}

// PrintHelp writes the banner and the interactive instructions
func (p *Printer) PrintHelp() {
	fmt.Fprintln(p.out, p.paint(ansiYellow, Rule))
	fmt.Fprintln(p.out, p.paint(ansiYellow, Banner))
	fmt.Fprintln(p.out, p.paint(ansiBlue, HelpMessage))
}

// PrintPrompt writes the input prompt
func (p *Printer) PrintPrompt() {
	fmt.Fprintln(p.out, p.paint(ansiPrompt, PromptMessage))
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func useColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
