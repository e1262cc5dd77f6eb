// Package engine provides the core simulation logic for the Martian Robots.
//
// The engine package implements:
//   - The orientation ring and its two rotations
//   - The bounded Mars surface grid and its lost-robot scent marks
//   - The robot autopilot state machine (ghost move, validate, commit)
//   - The batch runner that drives robots in input order on one grid
//
// Core Types:
//
// Grid is the rectangular surface. Coordinates are inclusive, so a grid
// built with NewGrid(5, 3) accepts 0 <= x <= 5 and 0 <= y <= 3. Robot owns a
// placement, an orientation and a command string and mutates a Grid only by
// leaving scent. Batch is the parsed instruction set handed to Run or Simulate.
//
// Usage:
//
//	reports, err := engine.Run(&engine.Batch{
//		GridSizeX: 5,
//		GridSizeY: 3,
//		InitialPositions: []engine.Placement{
//			{X: 1, Y: 1, Orientation: "E"},
//			{X: 3, Y: 2, Orientation: "N"},
//		},
//		Commands: []string{"RFRFRFRF", "FRRFLLFFRRFLL"},
//	})
//	// reports: ["1 1 E", "3 3 N LOST"]
//
// Scent Rules:
//
// A robot that steps off the grid is lost and leaves a scent on the last cell
// it occupied. A later robot standing on a scented cell ignores any single
// instruction that would take it off the grid from there, and carries on with
// the rest of its commands. Robots run strictly one after another, so the
// scent left by robot i is visible to every robot after it.
package engine
