package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

var (
	ErrMissionNotFound  = errors.New("mission not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// MissionService defines all rover operations
type MissionService interface {
	// One-shot simulation
	Simulate(ctx context.Context, batch *engine.Batch) (*engine.Result, error)
	SimulateText(ctx context.Context, text string) (*engine.Result, error)

	// Missions
	CreateMission(ctx context.Context, sizeX, sizeY int) (*MissionInfo, error)
	DeployRobot(ctx context.Context, missionID, position, commands string) (*DeployResult, error)
	GetMission(ctx context.Context, missionID string) (*MissionInfo, error)
	ListMissions(ctx context.Context) ([]*MissionInfo, error)
	DeleteMission(ctx context.Context, missionID string) error

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	GetScenario(ctx context.Context, name string) (*Scenario, error)
	SaveScenario(ctx context.Context, name, text string) (*ScenarioInfo, error)
	RunScenario(ctx context.Context, name string) (*ScenarioRun, error)
}

// SessionManager defines mission storage operations
type SessionManager interface {
	Create(sizeX, sizeY int) (*Mission, error)
	Get(id string) (*Mission, error)
	List() []*Mission
	Delete(id string) error
	CleanupExpired(maxAge time.Duration) int
	Count() int
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	SaveScenario(name, text string) (*Scenario, error)
	GetDefault() *Scenario
}
