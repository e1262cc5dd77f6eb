package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL, "test")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "m-1", "grid_size_x": 5})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")

	var mission service.MissionInfo
	if err := client.apiCall(context.Background(), "GET", "/api/missions/m-1", nil, &mission); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if mission.ID != "m-1" || mission.GridSizeX != 5 {
		t.Errorf("Unexpected decoded mission: %+v", mission)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999", "test")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"Plain error", http.StatusInternalServerError, "Internal Server Error", "API error"},
		{"JSON error", http.StatusNotFound, `{"error":"mission not found"}`, "mission not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "test")
			err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil || !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected error containing %q, got %v", tt.expected, err)
			}
		})
	}
}

func TestClient_handleSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/simulate" {
			t.Errorf("Expected POST /api/simulate, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if !strings.HasPrefix(body["input"], "5 3") {
			t.Errorf("Expected input text to be forwarded, got %q", body["input"])
		}
		json.NewEncoder(w).Encode(engine.Result{
			Reports: []string{"1 1 E", "3 3 N LOST"},
			Scents:  []engine.Position{{X: 3, Y: 3}},
			Surface: []string{"...#..", "......"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")
	result, err := client.handleSimulate(context.Background(),
		callRequest("simulate", map[string]interface{}{"input": "5 3\n1 1 E\nRFRFRFRF"}))
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}

	text := resultText(t, result)
	for _, expected := range []string{"1 1 E", "3 3 N LOST", "(3,3)", "...#.."} {
		if !strings.Contains(text, expected) {
			t.Errorf("Expected %q in result, got: %s", expected, text)
		}
	}
}

func TestClient_handleSimulate_MissingInput(t *testing.T) {
	client := NewClient("http://localhost:0", "test")

	result, err := client.handleSimulate(context.Background(), callRequest("simulate", nil))
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for missing input")
	}
}

func TestClient_handleDeployRobot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/missions/m-1/robots" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"position":"0 3 W"`) {
			t.Errorf("Expected position in body, got %s", body)
		}
		json.NewEncoder(w).Encode(service.DeployResult{
			MissionID: "m-1",
			Robot: engine.Outcome{
				Report: "2 3 S",
				Steps: []engine.Step{
					{Outcome: engine.StepRotated},
					{Outcome: engine.StepIgnored},
				},
			},
			Mission: &service.MissionInfo{ID: "m-1", GridSizeX: 5, GridSizeY: 3, Reports: []string{"3 3 N LOST", "2 3 S"}, LostCount: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")
	result, err := client.handleDeployRobot(context.Background(), callRequest("deploy_robot", map[string]interface{}{
		"mission_id": "m-1",
		"position":   "0 3 W",
		"commands":   "LLFFFLFLFL",
	}))
	if err != nil {
		t.Fatalf("handleDeployRobot failed: %v", err)
	}

	text := resultText(t, result)
	for _, expected := range []string{"Robot report: 2 3 S", "1 ignored because of a scent", "lost: 1"} {
		if !strings.Contains(text, expected) {
			t.Errorf("Expected %q in result, got: %s", expected, text)
		}
	}
}

func TestClient_handleCreateMission_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "008 - The grid size is out of range: (X) 60 3"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")
	result, err := client.handleCreateMission(context.Background(),
		callRequest("create_mission", map[string]interface{}{"grid": "60 3"}))
	if err != nil {
		t.Fatalf("handleCreateMission failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error")
	}
	if !strings.Contains(resultText(t, result), "out of range") {
		t.Error("Expected the API error message to be forwarded")
	}
}

func TestClient_handleListScenarios(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]service.ScenarioInfo{
			{ScenarioID: "sample", GridSizeX: 5, GridSizeY: 3, Robots: 3, Description: "Mission brief"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")
	result, _ := client.handleListScenarios(context.Background(), callRequest("list_scenarios", nil))

	text := resultText(t, result)
	if !strings.Contains(text, "sample: grid 5x3, 3 robots (Mission brief)") {
		t.Errorf("Unexpected scenario listing: %s", text)
	}
}

func TestClient_handleInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080", "test")

	result, err := client.handleInstructions(context.Background(), callRequest("instructions", nil))
	if err != nil {
		t.Fatalf("handleInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"INPUT FORMAT:", "COMMANDS:", "LOST ROBOTS AND SCENTS:", "3 3 N LOST"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
