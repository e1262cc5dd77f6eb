// Command analyze runs every scenario in the library and prints a
// human-readable summary: robots, reports, lost count, scented cells and the
// surface map.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/config"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
	"github.com/wricardo/mcp-training/martianrobots/output"
)

func main() {
	scenarioDir := "scenarios"
	if len(os.Args) > 1 {
		scenarioDir = os.Args[1]
	}

	library, err := config.NewManager(scenarioDir, input.Options{AllowExtended: true})
	if err != nil {
		fmt.Printf("Error opening scenario library: %v\n", err)
		os.Exit(1)
	}

	scenarios, err := library.ListScenarios()
	if err != nil {
		fmt.Printf("Error listing scenarios: %v\n", err)
		os.Exit(1)
	}

	printer := output.NewPrinter(output.ColorAuto, false)
	for _, info := range scenarios {
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)

		sc, err := library.LoadScenario(info.ScenarioID)
		if err != nil {
			fmt.Printf("Error loading scenario: %v\n", err)
			continue
		}
		if err := analyzeScenario(os.Stdout, printer, sc); err != nil {
			fmt.Printf("Error running scenario: %v\n", err)
		}
	}
}

func analyzeScenario(w io.Writer, printer *output.Printer, sc *service.Scenario) error {
	result, err := engine.Simulate(sc.Batch)
	if err != nil {
		return err
	}

	if sc.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", sc.Description)
	}
	fmt.Fprintf(w, "Grid Size: %d x %d\n", result.GridSizeX, result.GridSizeY)
	fmt.Fprintf(w, "Robots: %d\n", len(result.Robots))

	lost := 0
	longest := 0
	for i, robot := range result.Robots {
		if robot.Lost {
			lost++
		}
		if len(robot.Commands) > longest {
			longest = len(robot.Commands)
		}
		ignored := 0
		for _, step := range robot.Steps {
			if step.Outcome == engine.StepIgnored {
				ignored++
			}
		}
		fmt.Fprintf(w, "  %d. %-16s -> %s", i+1, robot.Commands, robot.Report)
		if ignored > 0 {
			fmt.Fprintf(w, " (%d ignored)", ignored)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Lost Robots: %d\n", lost)
	fmt.Fprintf(w, "Longest Command String: %d\n", longest)

	if len(result.Scents) == 0 {
		fmt.Fprintln(w, "✅ No scents left on the surface")
	} else {
		fmt.Fprintf(w, "⚠️  %d scented cells:", len(result.Scents))
		for _, p := range result.Scents {
			fmt.Fprintf(w, " (%d,%d)", p.X, p.Y)
		}
		fmt.Fprintln(w)
	}

	printer.PrintSurface(result)
	return nil
}
