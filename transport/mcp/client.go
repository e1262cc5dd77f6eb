package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, version string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer(version)
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer(version string) {
	c.mcpServer = server.NewMCPServer(
		"Martian Robots",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Martian Robots - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Drive robots across a rectangular plateau on Mars. Robots that fall off the
edge are LOST and leave a scent that protects later robots.

AVAILABLE TOOLS:
- simulate: Run instruction text on a fresh grid
- create_mission: Create a long-lived grid
- deploy_robot: Deploy one robot into a mission (scents persist)
- get_mission: Get a mission snapshot with the surface map
- list_missions: List active missions
- delete_mission: Delete a mission
- list_scenarios: List stored scenarios
- run_scenario: Run a stored scenario
- instructions: Get the full input format and rules`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Run a complete instruction text (grid line, then position/commands pairs) on a fresh grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"input": stringProp("Instruction text, e.g. \"5 3\\n1 1 E\\nRFRFRFRF\""),
			},
			Required: []string{"input"},
		},
	}, c.handleSimulate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_mission",
		Description: "Create a mission: a grid that keeps scents between robot deployments",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"grid": stringProp("Upper-right corner of the grid, e.g. \"5 3\""),
			},
			Required: []string{"grid"},
		},
	}, c.handleCreateMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deploy_robot",
		Description: "Deploy one robot into a mission and run its commands",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": stringProp("Mission ID"),
				"position":   stringProp("Start position and orientation, e.g. \"1 1 E\""),
				"commands":   stringProp("Command string of L, R and F, e.g. \"RFRFRFRF\""),
			},
			Required: []string{"mission_id", "position", "commands"},
		},
	}, c.handleDeployRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_mission",
		Description: "Get a mission snapshot: robots, scents and the surface map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": stringProp("Mission ID"),
			},
			Required: []string{"mission_id"},
		},
	}, c.handleGetMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_missions",
		Description: "List all active missions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMissions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_mission",
		Description: "Delete a mission",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": stringProp("Mission ID"),
			},
			Required: []string{"mission_id"},
		},
	}, c.handleDeleteMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List the stored scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_scenario",
		Description: "Run a stored scenario on a fresh grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": stringProp("Scenario name (see list_scenarios)"),
			},
			Required: []string{"name"},
		},
	}, c.handleRunScenario)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "instructions",
		Description: "Get the input format, command set and scent rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// stringArg reads a string argument; missing or mistyped arguments are empty
func stringArg(request mcp.CallToolRequest, name string) string {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return ""
	}
	value, _ := args[name].(string)
	return value
}

// Tool handlers

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := stringArg(request, "input")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	var result engine.Result
	if err := c.apiCall(ctx, "POST", "/api/simulate", map[string]string{"input": text}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatResult(&result)), nil
}

func (c *Client) handleCreateMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	grid := stringArg(request, "grid")

	var mission service.MissionInfo
	if err := c.apiCall(ctx, "POST", "/api/missions", map[string]string{"grid": grid}, &mission); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created mission: %s\nGrid: %d x %d (upper-right corner)\n",
		mission.ID, mission.GridSizeX, mission.GridSizeY)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeployRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	missionID := stringArg(request, "mission_id")
	body := map[string]string{
		"position": stringArg(request, "position"),
		"commands": stringArg(request, "commands"),
	}

	var deployed service.DeployResult
	path := fmt.Sprintf("/api/missions/%s/robots", url.PathEscape(missionID))
	if err := c.apiCall(ctx, "POST", path, body, &deployed); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDeployResult(&deployed)), nil
}

func (c *Client) handleGetMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	missionID := stringArg(request, "mission_id")

	var mission service.MissionInfo
	if err := c.apiCall(ctx, "GET", "/api/missions/"+url.PathEscape(missionID), nil, &mission); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMission(&mission)), nil
}

func (c *Client) handleListMissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Missions []service.MissionInfo `json:"missions"`
		Total    int                   `json:"total"`
	}

	if err := c.apiCall(ctx, "GET", "/api/missions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Missions (%d):\n\n", response.Total)
	for _, m := range response.Missions {
		result += fmt.Sprintf("- %s (Grid: %dx%d, Robots: %d, Lost: %d, Created: %s)\n",
			m.ID, m.GridSizeX, m.GridSizeY, len(m.Robots), m.LostCount, m.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	missionID := stringArg(request, "mission_id")

	if err := c.apiCall(ctx, "DELETE", "/api/missions/"+url.PathEscape(missionID), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted mission %s\n", missionID)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Available Scenarios (%d):\n\n", len(scenarios))
	for _, s := range scenarios {
		fmt.Fprintf(&sb, "- %s: grid %dx%d, %d robots", s.ScenarioID, s.GridSizeX, s.GridSizeY, s.Robots)
		if s.Description != "" {
			fmt.Fprintf(&sb, " (%s)", s.Description)
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")

	var run service.ScenarioRun
	path := fmt.Sprintf("/api/scenarios/%s/run", url.PathEscape(name))
	if err := c.apiCall(ctx, "POST", path, nil, &run); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if run.Result == nil {
		return mcp.NewToolResultError("empty scenario result"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Scenario: %s\n\n%s", run.Scenario, formatResult(run.Result))), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Martian Robots - Complete Instructions

INPUT FORMAT:
- Line 1: the upper-right corner of the grid, "X Y". The lower-left corner is 0 0.
- Then, for each robot, two lines:
  - Position: "X Y O" where O is one of N, E, S, W.
  - Commands: a string of L, R and F (at most 100 are executed).
- Coordinates are limited to 50.

COMMANDS:
- L: turn 90 degrees left, stay on the same point.
- R: turn 90 degrees right, stay on the same point.
- F: move forward one point in the current orientation. North is +Y.

LOST ROBOTS AND SCENTS:
- A robot that moves off the grid is LOST. Its report ends with "LOST" and
  shows the last position it occupied on the grid.
- The lost robot leaves a scent on that last position.
- A later robot on a scented point ignores any instruction that would take it
  off the grid from there.
- A robot that starts outside the grid is lost immediately.

EXAMPLE:
  5 3
  1 1 E
  RFRFRFRF
  3 2 N
  FRRFLLFFRRFLL
  0 3 W
  LLFFFLFLFL

Output:
  1 1 E
  3 3 N LOST
  2 3 S

MISSIONS:
- simulate runs every robot on a fresh grid.
- create_mission + deploy_robot keep one grid alive: scents left by earlier
  robots protect every later deployment into the same mission.
`

// Formatting helpers

func formatResult(result *engine.Result) string {
	var sb strings.Builder
	sb.WriteString("Reports:\n")
	for _, report := range result.Reports {
		fmt.Fprintf(&sb, "  %s\n", report)
	}
	writeScents(&sb, result.Scents)
	writeSurface(&sb, result.Surface)
	return sb.String()
}

func formatDeployResult(deployed *service.DeployResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Robot report: %s\n", deployed.Robot.Report)

	ignored := 0
	for _, step := range deployed.Robot.Steps {
		if step.Outcome == engine.StepIgnored {
			ignored++
		}
	}
	fmt.Fprintf(&sb, "Instructions executed: %d", len(deployed.Robot.Steps))
	if ignored > 0 {
		fmt.Fprintf(&sb, " (%d ignored because of a scent)", ignored)
	}
	sb.WriteString("\n")

	if deployed.Mission != nil {
		sb.WriteString("\n")
		sb.WriteString(formatMission(deployed.Mission))
	}
	return sb.String()
}

func formatMission(mission *service.MissionInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mission: %s\n", mission.ID)
	fmt.Fprintf(&sb, "Grid: %d x %d\n", mission.GridSizeX, mission.GridSizeY)
	fmt.Fprintf(&sb, "Robots: %d (lost: %d)\n", len(mission.Robots), mission.LostCount)
	for i, report := range mission.Reports {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, report)
	}
	writeScents(&sb, mission.Scents)
	writeSurface(&sb, mission.Surface)
	return sb.String()
}

func writeScents(sb *strings.Builder, scents []engine.Position) {
	if len(scents) == 0 {
		return
	}
	sb.WriteString("Scents:")
	for _, p := range scents {
		fmt.Fprintf(sb, " (%d,%d)", p.X, p.Y)
	}
	sb.WriteString("\n")
}

func writeSurface(sb *strings.Builder, surface []string) {
	if len(surface) == 0 {
		return
	}
	sb.WriteString("Surface (top row is the highest Y, # = scent):\n")
	for _, row := range surface {
		fmt.Fprintf(sb, "  %s\n", row)
	}
}
