package service

import (
	"sync"
	"time"

	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
)

// Mission is a grid that outlives a single batch. Robots deployed into it run
// one at a time under the mission's lock, so scents left by earlier robots are
// always visible to later ones.
type Mission struct {
	ID        string
	CreatedAt time.Time

	grid           *engine.Grid
	robots         []engine.Outcome
	lastAccessedAt time.Time
	mu             sync.Mutex
}

// NewMission creates a mission over a fresh grid
func NewMission(id string, sizeX, sizeY int) (*Mission, error) {
	grid, err := engine.NewGrid(sizeX, sizeY)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Mission{
		ID:             id,
		CreatedAt:      now,
		grid:           grid,
		robots:         []engine.Outcome{},
		lastAccessedAt: now,
	}, nil
}

// Deploy runs one robot on the mission grid
func (m *Mission) Deploy(placement engine.Placement, commands string) (*engine.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAccessedAt = time.Now()
	outcome, err := engine.Deploy(m.grid, placement, commands)
	if err != nil {
		return nil, err
	}
	m.robots = append(m.robots, *outcome)
	return outcome, nil
}

// Touch records an access
func (m *Mission) Touch() {
	m.mu.Lock()
	m.lastAccessedAt = time.Now()
	m.mu.Unlock()
}

// LastAccessed returns the time of the last access
func (m *Mission) LastAccessed() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAccessedAt
}

// GridSize returns the upper-right corner of the mission grid
func (m *Mission) GridSize() (int, int) {
	return m.grid.SizeX(), m.grid.SizeY()
}

// Info returns a consistent snapshot of the mission
func (m *Mission) Info() *MissionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := &MissionInfo{
		ID:             m.ID,
		GridSizeX:      m.grid.SizeX(),
		GridSizeY:      m.grid.SizeY(),
		CreatedAt:      m.CreatedAt,
		LastAccessedAt: m.lastAccessedAt,
		Robots:         make([]engine.Outcome, len(m.robots)),
		Reports:        make([]string, 0, len(m.robots)),
		Scents:         m.grid.ScentedCells(),
		Surface:        m.grid.Render(),
	}
	copy(info.Robots, m.robots)
	for _, r := range m.robots {
		info.Reports = append(info.Reports, r.Report)
		if r.Lost {
			info.LostCount++
		}
	}
	return info
}
