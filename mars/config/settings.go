package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"gopkg.in/yaml.v3"
)

// Settings holds the server and CLI settings
type Settings struct {
	mu sync.Mutex `yaml:"-"`

	ScenarioDir string          `yaml:"scenario_dir"`
	Color       string          `yaml:"color"`
	Commands    CommandSettings `yaml:"commands"`
	Server      ServerSettings  `yaml:"server"`
	Missions    MissionSettings `yaml:"missions"`
	Ngrok       NgrokSettings   `yaml:"ngrok"`
}

type CommandSettings struct {
	AllowExtended bool `yaml:"allow_extended"`
	MaxLength     int  `yaml:"max_length"`
}

type ServerSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type MissionSettings struct {
	Retention       time.Duration `yaml:"retention"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type NgrokSettings struct {
	Enabled bool   `yaml:"enabled"`
	Domain  string `yaml:"domain"`
}

// Defaults returns Settings with sane defaults.
func Defaults() *Settings {
	return &Settings{
		ScenarioDir: "scenarios",
		Color:       "auto",
		Commands: CommandSettings{
			MaxLength: engine.MaxCommandsLength,
		},
		Server: ServerSettings{
			Host: "",
			Port: 8080,
		},
		Missions: MissionSettings{
			Retention:       time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// Load reads a YAML settings file. If the file doesn't exist, defaults are used.
func Load(path string) (*Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to a YAML file.
func (s *Settings) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	switch s.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", s.Color)
	}
	if s.Commands.MaxLength < 1 || s.Commands.MaxLength > engine.MaxCommandsLength {
		return fmt.Errorf("commands.max_length must be between 1 and %d", engine.MaxCommandsLength)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Server.Port)
	}
	if s.Missions.Retention < 0 || s.Missions.CleanupInterval < 0 {
		return fmt.Errorf("mission durations must not be negative")
	}
	return nil
}

// InputOptions returns the parser options derived from the settings
func (s *Settings) InputOptions() input.Options {
	return input.Options{
		AllowExtended: s.Commands.AllowExtended,
		MaxCommands:   s.Commands.MaxLength,
	}
}

// Addr returns the listen address
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
