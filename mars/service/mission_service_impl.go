package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	opts      input.Options
}

// NewMissionService creates a new mission service instance. scenarios may be
// nil when no scenario library is configured.
func NewMissionService(sessions SessionManager, scenarios ScenarioManager, opts input.Options) MissionService {
	return &missionServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
		opts:      opts,
	}
}

// Simulate runs a batch on a fresh grid
func (s *missionServiceImpl) Simulate(ctx context.Context, batch *engine.Batch) (*engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if batch == nil {
		return engine.Simulate(nil)
	}

	cleaned := *batch
	cleaned.Commands = make([]string, len(batch.Commands))
	for i, commands := range batch.Commands {
		c, err := input.ParseCommandLine(input.TrimInput(commands), s.opts)
		if err != nil {
			return nil, fmt.Errorf("robot %d: %w", i+1, err)
		}
		cleaned.Commands[i] = c
	}
	return engine.Simulate(&cleaned)
}

// SimulateText parses instruction text and runs it on a fresh grid
func (s *missionServiceImpl) SimulateText(ctx context.Context, text string) (*engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	batch, err := input.ParseString(text, s.opts)
	if err != nil {
		return nil, err
	}
	return engine.Simulate(batch)
}

// CreateMission creates a mission over a fresh grid
func (s *missionServiceImpl) CreateMission(ctx context.Context, sizeX, sizeY int) (*MissionInfo, error) {
	mission, err := s.sessions.Create(sizeX, sizeY)
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}
	log.Printf("Mission %s created (%dx%d)", mission.ID, sizeX, sizeY)
	return mission.Info(), nil
}

// DeployRobot parses a position line and a command line and runs the robot in
// the mission
func (s *missionServiceImpl) DeployRobot(ctx context.Context, missionID, position, commands string) (*DeployResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mission, err := s.sessions.Get(missionID)
	if err != nil {
		return nil, err
	}

	sizeX, sizeY := mission.GridSize()
	placement, err := input.ParsePositionLine(input.TrimInput(position), sizeX, sizeY)
	if err != nil {
		return nil, err
	}
	cleaned, err := input.ParseCommandLine(input.TrimInput(commands), s.opts)
	if err != nil {
		return nil, err
	}

	outcome, err := mission.Deploy(placement, cleaned)
	if err != nil {
		return nil, err
	}

	return &DeployResult{
		MissionID: mission.ID,
		Robot:     *outcome,
		Mission:   mission.Info(),
	}, nil
}

// GetMission retrieves mission information
func (s *missionServiceImpl) GetMission(ctx context.Context, missionID string) (*MissionInfo, error) {
	mission, err := s.sessions.Get(missionID)
	if err != nil {
		return nil, err
	}
	mission.Touch()
	return mission.Info(), nil
}

// ListMissions returns all missions, oldest first
func (s *missionServiceImpl) ListMissions(ctx context.Context) ([]*MissionInfo, error) {
	missions := s.sessions.List()
	infos := make([]*MissionInfo, 0, len(missions))
	for _, m := range missions {
		infos = append(infos, m.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos, nil
}

// DeleteMission removes a mission
func (s *missionServiceImpl) DeleteMission(ctx context.Context, missionID string) error {
	if err := s.sessions.Delete(missionID); err != nil {
		return err
	}
	log.Printf("Mission %s deleted", missionID)
	return nil
}

// ListScenarios returns the available scenarios
func (s *missionServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	if s.scenarios == nil {
		return []*ScenarioInfo{}, nil
	}
	return s.scenarios.ListScenarios()
}

// GetScenario loads a scenario by name; an empty name selects the default
func (s *missionServiceImpl) GetScenario(ctx context.Context, name string) (*Scenario, error) {
	if s.scenarios == nil {
		return nil, fmt.Errorf("%w: no scenario library configured", ErrScenarioNotFound)
	}
	if name == "" {
		if def := s.scenarios.GetDefault(); def != nil {
			return def, nil
		}
		return nil, ErrScenarioNotFound
	}

	sc, err := s.scenarios.LoadScenario(name)
	if err != nil {
		if errors.Is(err, ErrScenarioNotFound) {
			return nil, s.notFound(name)
		}
		return nil, err
	}
	return sc, nil
}

// SaveScenario validates and stores instruction text under a name
func (s *missionServiceImpl) SaveScenario(ctx context.Context, name, text string) (*ScenarioInfo, error) {
	if s.scenarios == nil {
		return nil, fmt.Errorf("%w: no scenario library configured", ErrInvalidScenario)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: scenario name is required", ErrInvalidScenario)
	}
	sc, err := s.scenarios.SaveScenario(name, text)
	if err != nil {
		return nil, err
	}
	return NewScenarioInfo(sc.Name+".txt", sc), nil
}

// RunScenario runs a scenario on a fresh grid
func (s *missionServiceImpl) RunScenario(ctx context.Context, name string) (*ScenarioRun, error) {
	sc, err := s.GetScenario(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := engine.Simulate(sc.Batch)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return &ScenarioRun{Scenario: sc.Name, Result: result}, nil
}

// notFound lists the available scenarios alongside the error
func (s *missionServiceImpl) notFound(name string) error {
	available, err := s.scenarios.ListScenarios()
	if err != nil || len(available) == 0 {
		return fmt.Errorf("%w: '%s'. Use /api/scenarios to list available scenarios", ErrScenarioNotFound, name)
	}
	ids := make([]string, 0, len(available))
	for _, sc := range available {
		ids = append(ids, sc.ScenarioID)
	}
	return fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, name, ids)
}
