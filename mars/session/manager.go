package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
)

var (
	ErrMissionNotFound  = service.ErrMissionNotFound
	ErrInvalidMissionID = errors.New("invalid mission ID")
)

// Manager handles mission lifecycle
type Manager struct {
	missions map[string]*service.Mission
	mu       sync.RWMutex
}

// NewManager creates a new mission manager
func NewManager() *Manager {
	return &Manager{
		missions: make(map[string]*service.Mission),
	}
}

// Create creates a mission over a fresh grid of the given size
func (m *Manager) Create(sizeX, sizeY int) (*service.Mission, error) {
	mission, err := service.NewMission(uuid.NewString(), sizeX, sizeY)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.missions[strings.ToLower(mission.ID)] = mission
	m.mu.Unlock()

	return mission, nil
}

// Get retrieves a mission by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Mission, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidMissionID
	}

	m.mu.RLock()
	mission, exists := m.missions[strings.ToLower(id)]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrMissionNotFound
	}
	return mission, nil
}

// List returns all missions
func (m *Manager) List() []*service.Mission {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Mission, 0, len(m.missions))
	for _, mission := range m.missions {
		result = append(result, mission)
	}
	return result
}

// Delete removes a mission
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.missions[key]; !exists {
		return ErrMissionNotFound
	}
	delete(m.missions, key)
	return nil
}

// CleanupExpired removes missions that haven't been accessed in the given duration
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, mission := range m.missions {
		if mission.LastAccessed().Before(cutoff) {
			delete(m.missions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active missions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.missions)
}
