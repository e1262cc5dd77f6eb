// Command validate checks the scenario files in the ../scenarios directory
// (or the directory given as the first argument). It checks:
//   - the instruction text parses (grid line, position/command pairs)
//   - robots start inside the announced grid
//   - the batch runs to completion
//   - whether extended commands are used
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/config"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateScenario loads and validates a single scenario file
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	name := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	scenario, err := config.ParseScenario(name, data, input.Options{AllowExtended: true})
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	batch := scenario.Batch
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %d x %d", batch.GridSizeX, batch.GridSizeY))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Robots: %d", len(batch.Commands)))

	if scenario.Description == "" {
		result.Errors = append(result.Errors, "✓ No description comment")
	}

	for i, placement := range batch.InitialPositions {
		if placement.Lost {
			result.Errors = append(result.Errors,
				fmt.Sprintf("✓ Robot %d starts outside the grid at (%d,%d) and is lost at once", i+1, placement.X, placement.Y))
		}
	}

	if usesExtendedCommands(batch) {
		result.Errors = append(result.Errors, "✓ Uses extended commands (B, I, D); requires commands.allow_extended")
	}

	simulation, err := engine.Simulate(batch)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Simulation failed: %v", err))
		return result
	}

	lost := 0
	for _, robot := range simulation.Robots {
		if robot.Lost {
			lost++
		}
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Simulation: %d/%d robots lost, %d scented cells",
		lost, len(simulation.Robots), len(simulation.Scents)))

	return result
}

func usesExtendedCommands(batch *engine.Batch) bool {
	for _, commands := range batch.Commands {
		if strings.ContainsAny(commands, "BID") {
			return true
		}
	}
	return false
}

// main scans the scenario directory for *.txt files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	scenarioDir := "../scenarios"
	if len(os.Args) > 1 {
		scenarioDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.txt"))
	if err != nil {
		fmt.Printf("Error finding scenario files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No scenario files found in %s\n", scenarioDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All scenarios are valid!")
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}
