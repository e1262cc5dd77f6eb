package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/martianrobots/input"
)

const sampleScenario = `# Sample input from the mission brief
# Three robots on a 5x3 plateau
5 3
1 1 E
RFRFRFRF

3 2 N
FRRFLLFFRRFLL

0 3 W
LLFFFLFLFL
`

func writeScenarioFile(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeScenarioFile(t, dir, "sample.txt", sampleScenario)

		manager, err := NewManager(dir, input.Options{})
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault() == nil {
			t.Fatal("Expected default scenario to be loaded")
		}
		if manager.GetDefault().Name != "sample" {
			t.Errorf("Expected default 'sample', got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path", input.Options{})
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory has no default", func(t *testing.T) {
		manager, err := NewManager(t.TempDir(), input.Options{})
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault() != nil {
			t.Error("Expected no default scenario in an empty library")
		}
	})

	t.Run("first scenario becomes default", func(t *testing.T) {
		dir := t.TempDir()
		writeScenarioFile(t, dir, "beta.txt", "2 2\n0 0 N\nFF\n")
		writeScenarioFile(t, dir, "alpha.txt", "1 1\n0 0 E\nF\n")

		manager, err := NewManager(dir, input.Options{})
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault() == nil || manager.GetDefault().Name != "alpha" {
			t.Errorf("Expected 'alpha' as default, got %+v", manager.GetDefault())
		}
	})
}

func TestManager_LoadScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "sample.txt", sampleScenario)
	writeScenarioFile(t, dir, "broken.txt", "5 3\n1 1 Q\nFFF\n")
	manager, _ := NewManager(dir, input.Options{})

	t.Run("load existing scenario", func(t *testing.T) {
		sc, err := manager.LoadScenario("sample")
		if err != nil {
			t.Fatalf("Failed to load scenario: %v", err)
		}
		if sc.Batch.GridSizeX != 5 || sc.Batch.GridSizeY != 3 {
			t.Errorf("Expected grid 5x3, got %dx%d", sc.Batch.GridSizeX, sc.Batch.GridSizeY)
		}
		if len(sc.Batch.InitialPositions) != 3 {
			t.Errorf("Expected 3 robots, got %d", len(sc.Batch.InitialPositions))
		}
		expected := "Sample input from the mission brief Three robots on a 5x3 plateau"
		if sc.Description != expected {
			t.Errorf("Expected description %q, got %q", expected, sc.Description)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		sc, err := manager.LoadScenario("sample.txt")
		if err != nil {
			t.Fatalf("Failed to load scenario with extension: %v", err)
		}
		if sc.Name != "sample" {
			t.Errorf("Expected name 'sample', got %q", sc.Name)
		}
	})

	t.Run("cached", func(t *testing.T) {
		a, _ := manager.LoadScenario("sample")
		b, _ := manager.LoadScenario("sample")
		if a != b {
			t.Error("Expected the cached scenario to be returned")
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := manager.LoadScenario("missing")
		if !errors.Is(err, ErrScenarioNotFound) {
			t.Errorf("Expected ErrScenarioNotFound, got %v", err)
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		_, err := manager.LoadScenario("broken")
		if !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("Expected ErrInvalidScenario, got %v", err)
		}
		if !errors.Is(err, input.ErrInvalidPosition) {
			t.Errorf("Expected the validation cause to be kept, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := manager.LoadScenario("../etc/passwd")
		if !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("Expected ErrInvalidScenario, got %v", err)
		}
	})
}

func TestManager_ListScenarios(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "sample.txt", sampleScenario)
	writeScenarioFile(t, dir, "corner.txt", "0 0\n0 0 N\nF\n")
	writeScenarioFile(t, dir, "broken.txt", "not a grid\n")
	writeScenarioFile(t, dir, "notes.md", "ignored")
	os.Mkdir(filepath.Join(dir, "subdir"), 0755)

	manager, _ := NewManager(dir, input.Options{})

	scenarios, err := manager.ListScenarios()
	if err != nil {
		t.Fatalf("Failed to list scenarios: %v", err)
	}

	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 valid scenarios, got %d", len(scenarios))
	}
	if scenarios[0].ScenarioID != "corner" || scenarios[1].ScenarioID != "sample" {
		t.Errorf("Expected sorted [corner sample], got [%s %s]", scenarios[0].ScenarioID, scenarios[1].ScenarioID)
	}
	if scenarios[1].Robots != 3 || scenarios[1].Filename != "sample.txt" {
		t.Errorf("Unexpected info for sample: %+v", scenarios[1])
	}
}

func TestManager_SaveScenario(t *testing.T) {
	dir := t.TempDir()
	manager, _ := NewManager(dir, input.Options{})

	t.Run("save valid scenario", func(t *testing.T) {
		sc, err := manager.SaveScenario("edge", "2 2\n2 2 N\nF")
		if err != nil {
			t.Fatalf("Failed to save scenario: %v", err)
		}
		if sc.Name != "edge" {
			t.Errorf("Expected name 'edge', got %q", sc.Name)
		}
		if _, err := os.Stat(filepath.Join(dir, "edge.txt")); err != nil {
			t.Errorf("Expected scenario file to be written: %v", err)
		}
		loaded, err := manager.LoadScenario("edge")
		if err != nil {
			t.Fatalf("Failed to load saved scenario: %v", err)
		}
		if loaded.Batch.Commands[0] != "F" {
			t.Errorf("Expected commands 'F', got %q", loaded.Batch.Commands[0])
		}
	})

	t.Run("reject invalid scenario", func(t *testing.T) {
		_, err := manager.SaveScenario("bad", "99 3\n1 1 E\nF")
		if !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("Expected ErrInvalidScenario, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "bad.txt")); !os.IsNotExist(statErr) {
			t.Error("Invalid scenario should not be written")
		}
	})

	t.Run("reject bad name", func(t *testing.T) {
		_, err := manager.SaveScenario("a/b", "1 1\n0 0 N\nF")
		if !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("Expected ErrInvalidScenario, got %v", err)
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "sample.txt", "1 1\n0 0 N\nF\n")
	manager, _ := NewManager(dir, input.Options{})

	before, _ := manager.LoadScenario("sample")
	writeScenarioFile(t, dir, "sample.txt", "2 2\n0 0 N\nFF\n")

	cached, _ := manager.LoadScenario("sample")
	if cached.Batch.GridSizeX != 1 {
		t.Error("Expected the cached scenario before refresh")
	}

	manager.RefreshCache()

	after, err := manager.LoadScenario("sample")
	if err != nil {
		t.Fatalf("Failed to load after refresh: %v", err)
	}
	if after == before || after.Batch.GridSizeX != 2 {
		t.Error("Expected the scenario to be reloaded from disk")
	}
	if manager.GetDefault() == nil || manager.GetDefault().Batch.GridSizeX != 2 {
		t.Error("Expected the default to be reloaded")
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "sample.txt", sampleScenario)
	writeScenarioFile(t, dir, "corner.txt", "0 0\n0 0 N\nF\n")
	manager, _ := NewManager(dir, input.Options{})

	if err := manager.SetDefault("corner"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "corner" {
		t.Errorf("Expected default 'corner', got %q", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("Expected ErrScenarioNotFound, got %v", err)
	}
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "sample.txt", sampleScenario)
	manager, _ := NewManager(dir, input.Options{})
	manager.RefreshCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadScenario("sample"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestParseScenario_ExtendedCommands(t *testing.T) {
	text := "5 5\n2 2 N\nBID\n"

	if _, err := ParseScenario("ext", []byte(text), input.Options{}); !errors.Is(err, input.ErrInvalidCommands) {
		t.Errorf("Expected ErrInvalidCommands without extended commands, got %v", err)
	}

	sc, err := ParseScenario("ext", []byte(text), input.Options{AllowExtended: true})
	if err != nil {
		t.Fatalf("Expected extended commands to be accepted: %v", err)
	}
	if sc.Batch.Commands[0] != "BID" {
		t.Errorf("Expected 'BID', got %q", sc.Batch.Commands[0])
	}
}
