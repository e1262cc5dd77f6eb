// Package service exposes the rover operations used by the HTTP API, the MCP
// tools and the CLI.
//
// Two kinds of work are supported:
//   - One-shot simulations: a batch of robots run on a fresh grid.
//   - Missions: a long-lived grid into which robots are deployed one at a
//     time. Scents left by lost robots persist for the lifetime of the
//     mission, and deployments into the same mission run sequentially.
//
// Scenarios are named instruction files served by a ScenarioManager; they can
// be listed, fetched, saved and run like any other batch.
//
// Usage:
//
//	svc := service.NewMissionService(session.NewManager(), scenarios, input.Options{})
//
//	result, err := svc.SimulateText(ctx, "5 3\n1 1 E\nRFRFRFRF")
//
//	mission, err := svc.CreateMission(ctx, 5, 3)
//	deployed, err := svc.DeployRobot(ctx, mission.ID, "3 2 N", "FRRFLLFFRRFLL")
package service
