package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/martianrobots/api"
	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/config"
	"github.com/wricardo/mcp-training/martianrobots/mars/session"
	"github.com/wricardo/mcp-training/martianrobots/output"
	"github.com/wricardo/mcp-training/martianrobots/transport/mcp"
	"github.com/wricardo/mcp-training/martianrobots/transport/websocket"
)

const sampleInstructions = `5 3
1 1 E
RFRFRFRF

3 2 N
FRRFLLFFRRFLL

0 3 W
LLFFFLFLFL
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func newTestPrinter() (*output.Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return output.NewWriterPrinter(&stdout, &stderr, output.ColorNever, false), &stdout, &stderr
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Martian Robots"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, expected := range []string{"serve", "mcp", "version"} {
		if !names[expected] {
			t.Errorf("Expected subcommand %q", expected)
		}
	}
}

func TestRunBatchFile_Sample(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.txt", sampleInstructions)
	printer, stdout, stderr := newTestPrinter()

	if err := runBatchFile(path, input.Options{}, printer); err != nil {
		t.Fatalf("runBatchFile failed: %v (stderr: %s)", err, stderr.String())
	}

	expected := "1 1 E\n3 3 N LOST\n2 3 S\n"
	if stdout.String() != expected {
		t.Errorf("Expected output %q, got %q", expected, stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("Expected no errors, got %q", stderr.String())
	}
}

func TestRunBatchFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		path         string
		expectedCode string
	}{
		{"missing file", filepath.Join(dir, "missing.txt"), "004"},
		{"grid out of range", writeFile(t, dir, "big.txt", "60 3\n1 1 E\nF\n"), "008"},
		{"bad commands", writeFile(t, dir, "bad.txt", "5 3\n1 1 E\nFXF\n"), "011"},
		{"unbalanced", writeFile(t, dir, "unbalanced.txt", "5 3\n1 1 E\nF\n2 2 N\n"), "015"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			printer, stdout, stderr := newTestPrinter()

			err := runBatchFile(test.path, input.Options{}, printer)
			if !errors.Is(err, errReported) {
				t.Fatalf("Expected errReported, got %v", err)
			}
			if stdout.Len() != 0 {
				t.Errorf("Expected no partial output, got %q", stdout.String())
			}
			if !strings.HasPrefix(stderr.String(), "ERROR: "+test.expectedCode) {
				t.Errorf("Expected error code %s, got %q", test.expectedCode, stderr.String())
			}
		})
	}
}

func TestRunBatchFile_ExtendedCommands(t *testing.T) {
	path := writeFile(t, t.TempDir(), "extended.txt", "5 3\n1 1 N\nFBD\n")

	printer, _, stderr := newTestPrinter()
	if err := runBatchFile(path, input.Options{}, printer); !errors.Is(err, errReported) {
		t.Errorf("Expected extended commands to be rejected by default, got %v", err)
	}
	if !strings.Contains(stderr.String(), "011") {
		t.Errorf("Expected invalid commands error, got %q", stderr.String())
	}

	printer, stdout, _ := newTestPrinter()
	if err := runBatchFile(path, input.Options{AllowExtended: true}, printer); err != nil {
		t.Fatalf("Expected extended commands to run, got %v", err)
	}
	if stdout.String() != "2 1 N\n" {
		t.Errorf("Expected 2 1 N, got %q", stdout.String())
	}
}

func TestRunInteractive(t *testing.T) {
	stream := "5 3\n1 1 E\nRFRFRFRF\n\n" +
		"5 3\n1 1 E\nFXF\n\n" +
		"5 3\n3 2 N\nFRRFLLFFRRFLL\n"

	printer, stdout, stderr := newTestPrinter()
	if err := runInteractive(strings.NewReader(stream), input.Options{}, printer); err != nil {
		t.Fatalf("runInteractive failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, output.PromptMessage) {
		t.Error("Expected the prompt to be printed")
	}
	if !strings.Contains(out, "1 1 E\n") {
		t.Errorf("Expected first batch report, got %q", out)
	}
	// Each batch runs on a fresh grid, so no scent carries over.
	if !strings.Contains(out, "3 3 N LOST\n") {
		t.Errorf("Expected third batch report, got %q", out)
	}
	if strings.Count(stderr.String(), "ERROR: ") != 1 {
		t.Errorf("Expected exactly one error, got %q", stderr.String())
	}
}

func TestPrintOutcome(t *testing.T) {
	printer, stdout, stderr := newTestPrinter()
	if err := printOutcome(printer, []string{"1 1 E"}, nil); err != nil {
		t.Errorf("Expected reports to print, got %v", err)
	}
	if stdout.String() != "1 1 E\n" {
		t.Errorf("Unexpected output %q", stdout.String())
	}

	printer, stdout, stderr = newTestPrinter()
	if err := printOutcome(printer, nil, nil); !errors.Is(err, errReported) {
		t.Errorf("Expected errReported for empty reports, got %v", err)
	}
	if !strings.HasPrefix(stderr.String(), "ERROR: 013") {
		t.Errorf("Expected empty output error, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no output, got %q", stdout.String())
	}
}

func TestLoadSettings_Flags(t *testing.T) {
	var loaded *config.Settings

	cmd := &cli.Command{
		Name:  "test",
		Flags: append(newApp().Flags, serverFlags(false)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			loaded, err = loadSettings(cmd)
			return err
		},
	}

	args := []string{
		"test",
		"--settings", filepath.Join(t.TempDir(), "missing.yaml"),
		"--extended",
		"--no-color",
		"--port", "9090",
		"--scenario-dir", "missions",
	}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !loaded.Commands.AllowExtended {
		t.Error("Expected --extended to enable extended commands")
	}
	if loaded.Color != string(output.ColorNever) {
		t.Errorf("Expected colour never, got %s", loaded.Color)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", loaded.Server.Port)
	}
	if loaded.ScenarioDir != "missions" {
		t.Errorf("Expected scenario dir missions, got %s", loaded.ScenarioDir)
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.txt", "# Mission brief\n"+sampleInstructions)

	settings := config.Defaults()
	settings.ScenarioDir = dir

	missionService, sessions, err := initializeServices(settings)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if missionService == nil || sessions == nil {
		t.Fatal("Expected services to be initialized")
	}

	run, err := missionService.RunScenario(context.Background(), "sample")
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}
	if len(run.Result.Reports) != 3 || run.Result.Reports[1] != "3 3 N LOST" {
		t.Errorf("Unexpected reports %v", run.Result.Reports)
	}
}

func TestInitializeServices_MissingScenarioDir(t *testing.T) {
	settings := config.Defaults()
	settings.ScenarioDir = "/non/existent/path"

	missionService, _, err := initializeServices(settings)
	if err != nil {
		t.Fatalf("Expected a missing scenario directory to be tolerated, got %v", err)
	}

	scenarios, err := missionService.ListScenarios(context.Background())
	if err != nil {
		t.Fatalf("ListScenarios failed: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("Expected no scenarios, got %d", len(scenarios))
	}

	if _, _, err := initializeServices(nil); err == nil {
		t.Error("Expected error for nil settings")
	}
}

func TestMissionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	if _, err := manager.Create(5, 3); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go missionCleanupRoutine(ctx, manager, config.MissionSettings{
		Retention:       time.Nanosecond,
		CleanupInterval: 10 * time.Millisecond,
	})

	deadline := time.Now().Add(2 * time.Second)
	for manager.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected the expired mission to be cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLocalURL(t *testing.T) {
	tests := []struct {
		settings config.ServerSettings
		expected string
	}{
		{config.ServerSettings{Port: 8080}, "http://localhost:8080"},
		{config.ServerSettings{Host: "0.0.0.0", Port: 9090}, "http://localhost:9090"},
		{config.ServerSettings{Host: "127.0.0.1", Port: 8081}, "http://127.0.0.1:8081"},
	}

	for _, test := range tests {
		if got := localURL(test.settings); got != test.expected {
			t.Errorf("localURL(%+v) = %s, expected %s", test.settings, got, test.expected)
		}
	}
}

func TestNewRouter(t *testing.T) {
	missionService, _, err := initializeServices(config.Defaults())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := websocket.NewHub()
	go hub.Run(ctx)

	router := newRouter(api.NewServer(missionService, hub), mcp.NewClient("http://localhost:0", Version))

	// API requests fall through to the REST server
	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for /api/health, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	req = httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for /mcp, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Martian Robots") {
		t.Errorf("Expected server info in MCP response, got %s", w.Body.String())
	}
}
