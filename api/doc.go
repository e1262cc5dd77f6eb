// Package api provides the HTTP REST API for the rover simulator.
//
// Endpoints:
//
// Simulation:
//   - POST /api/simulate - Run a batch on a fresh grid. The body is either a
//     JSON batch, a JSON object {"input": "<instruction text>"}, or raw
//     instruction text sent as text/plain.
//
// Missions:
//   - POST /api/missions - Create a mission: {"grid": "5 3"} or
//     {"grid_size_x": 5, "grid_size_y": 3}
//   - GET /api/missions - List missions
//   - GET /api/missions/{id} - Get a mission snapshot
//   - DELETE /api/missions/{id} - Delete a mission
//   - POST /api/missions/{id}/robots - Deploy a robot:
//     {"position": "1 1 E", "commands": "RFRFRFRF"}
//
// Scenarios:
//   - GET /api/scenarios - List scenarios
//   - POST /api/scenarios - Save a scenario: {"name": "...", "text": "..."}
//   - GET /api/scenarios/{name} - Get a scenario
//   - POST /api/scenarios/{name}/run - Run a scenario on a fresh grid
//
// WebSocket:
//   - GET /ws?mission={id} - Live feed of a mission's deployments
//
// Error Handling:
//
// Errors are returned as JSON: {"error": "message"}. Rejected input and
// failed simulations answer 400; unknown missions and scenarios answer 404.
package api
