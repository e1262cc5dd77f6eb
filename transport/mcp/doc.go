// Package mcp exposes the rover simulator to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API and the JSON answer is rendered as text for the agent.
//
// MCP Tools:
//   - simulate: Run instruction text on a fresh grid
//   - create_mission: Create a grid that keeps scents between deployments
//   - deploy_robot: Deploy one robot into a mission
//   - get_mission: Mission snapshot with reports, scents and surface map
//   - list_missions: List active missions
//   - delete_mission: Delete a mission
//   - list_scenarios: List stored scenarios
//   - run_scenario: Run a stored scenario
//   - instructions: Input format and rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the /mcp endpoint forwards request bodies to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", version)
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
