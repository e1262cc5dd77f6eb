package service

import (
	"time"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

// MissionInfo is a snapshot of a mission
type MissionInfo struct {
	ID             string            `json:"id"`
	GridSizeX      int               `json:"grid_size_x"`
	GridSizeY      int               `json:"grid_size_y"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Robots         []engine.Outcome  `json:"robots"`
	Reports        []string          `json:"reports"`
	LostCount      int               `json:"lost_count"`
	Scents         []engine.Position `json:"scents"`
	Surface        []string          `json:"surface"`
}

// DeployResult contains the outcome of one deployment
type DeployResult struct {
	MissionID string         `json:"mission_id"`
	Robot     engine.Outcome `json:"robot"`
	Mission   *MissionInfo   `json:"mission"`
}

// Scenario is a named instruction file
type Scenario struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Text        string        `json:"text"`
	Batch       *engine.Batch `json:"batch"`
}

// ScenarioInfo provides information about an available scenario
type ScenarioInfo struct {
	Filename    string `json:"filename"`
	ScenarioID  string `json:"scenario_id"`
	Description string `json:"description,omitempty"`
	GridSizeX   int    `json:"grid_size_x"`
	GridSizeY   int    `json:"grid_size_y"`
	Robots      int    `json:"robots"`
}

// ScenarioRun is the result of running a scenario
type ScenarioRun struct {
	Scenario string         `json:"scenario"`
	Result   *engine.Result `json:"result"`
}

// NewScenarioInfo summarises a scenario
func NewScenarioInfo(filename string, sc *Scenario) *ScenarioInfo {
	info := &ScenarioInfo{
		Filename:    filename,
		ScenarioID:  sc.Name,
		Description: sc.Description,
	}
	if sc.Batch != nil {
		info.GridSizeX = sc.Batch.GridSizeX
		info.GridSizeY = sc.Batch.GridSizeY
		info.Robots = len(sc.Batch.InitialPositions)
	}
	return info
}
