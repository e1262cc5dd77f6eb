package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
)

const (
	scenarioExt     = ".txt"
	defaultScenario = "sample"
)

var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = service.ErrInvalidScenario
)

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	opts            input.Options
	defaultScenario *service.Scenario
	scenarios       map[string]*service.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager over an existing directory
func NewManager(scenarioDir string, opts input.Options) (*Manager, error) {
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		opts:        opts,
		scenarios:   make(map[string]*service.Scenario),
	}
	m.loadDefaultScenario()

	return m, nil
}

// Dir returns the scenario directory
func (m *Manager) Dir() string { return m.scenarioDir }

// LoadScenario loads a scenario by name
func (m *Manager) LoadScenario(name string) (*service.Scenario, error) {
	name = strings.TrimSuffix(name, scenarioExt)
	if err := validateName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if sc, exists := m.scenarios[name]; exists {
		m.mu.RUnlock()
		return sc, nil
	}
	m.mu.RUnlock()

	data, err := os.ReadFile(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := ParseScenario(name, data, m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another reader may have cached it meanwhile
	if cached, exists := m.scenarios[name]; exists {
		return cached, nil
	}
	m.scenarios[name] = sc
	return sc, nil
}

// ListScenarios returns information about all valid scenarios, sorted by name
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	scenarios := []*service.ScenarioInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), scenarioExt) {
			continue
		}

		sc, err := m.LoadScenario(strings.TrimSuffix(entry.Name(), scenarioExt))
		if err != nil {
			// Skip invalid scenarios
			continue
		}
		scenarios = append(scenarios, service.NewScenarioInfo(entry.Name(), sc))
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ScenarioID < scenarios[j].ScenarioID
	})
	return scenarios, nil
}

// GetDefault returns the default scenario, or nil when the library is empty
func (m *Manager) GetDefault() *service.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	sc, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = sc
	return nil
}

// RefreshCache drops every cached scenario and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.scenarios = make(map[string]*service.Scenario)
	m.defaultScenario = nil
	m.mu.Unlock()

	m.loadDefaultScenario()
}

// SaveScenario validates instruction text and writes it to disk
func (m *Manager) SaveScenario(name, text string) (*service.Scenario, error) {
	name = strings.TrimSuffix(name, scenarioExt)
	if err := validateName(name); err != nil {
		return nil, err
	}

	sc, err := ParseScenario(name, []byte(text), m.opts)
	if err != nil {
		return nil, err
	}

	data := text
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}
	if err := os.WriteFile(m.path(name), []byte(data), 0644); err != nil {
		return nil, fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[name] = sc
	m.mu.Unlock()

	return sc, nil
}

// loadDefaultScenario picks "sample", or the first valid scenario
func (m *Manager) loadDefaultScenario() {
	sc, err := m.LoadScenario(defaultScenario)
	if err != nil {
		available, listErr := m.ListScenarios()
		if listErr != nil || len(available) == 0 {
			return
		}
		sc, err = m.LoadScenario(available[0].ScenarioID)
		if err != nil {
			return
		}
	}

	m.mu.Lock()
	m.defaultScenario = sc
	m.mu.Unlock()
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.scenarioDir, name+scenarioExt)
}

// ParseScenario validates scenario text. Comment lines are dropped and the
// leading comment block becomes the description.
func ParseScenario(name string, data []byte, opts input.Options) (*service.Scenario, error) {
	var description []string
	var body []string
	header := true

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			if header {
				description = append(description, strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			}
			continue
		}
		if trimmed != "" {
			header = false
		}
		body = append(body, line)
	}

	text := strings.TrimSpace(strings.Join(body, "\n"))
	batch, err := input.ParseString(text, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidScenario, name, err)
	}

	return &service.Scenario{
		Name:        name,
		Description: strings.Join(description, " "),
		Text:        text,
		Batch:       batch,
	}, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad scenario name %q", ErrInvalidScenario, name)
	}
	return nil
}
