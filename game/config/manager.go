package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/snakefall/snakefall/game/engine"
	"github.com/snakefall/snakefall/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level loading and caching
type Manager struct {
	levelsDir    string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelsDir string) (*Manager, error) {
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	m := &Manager{
		levelsDir: levelsDir,
		levels:    make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadConfig loads a level by name
func (m *Manager) LoadConfig(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	if cfg, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.levels[name]; exists {
		return cfg, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelsDir, filename)

	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var cfg engine.LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	if err := engine.ValidateLevelConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[name] = &cfg
	return &cfg, nil
}

// ListConfigs returns information about all available levels
func (m *Manager) ListConfigs() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		cfg, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		levels = append(levels, &service.LevelInfo{
			Filename:    entry.Name(),
			LevelID:     name, // This is the identifier to use for session creation
			Name:        cfg.Name,
			Description: cfg.Description,
			Width:       cfg.Width,
			Height:      cfg.Height,
			SnakeCount:  len(cfg.Snakes),
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = cfg
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel picks the default level: garden.json, else the first
// available level, else the built-in minimal level.
func (m *Manager) loadDefaultLevel() error {
	cfg, err := m.LoadConfig("garden")
	if err != nil {
		levels, listErr := m.ListConfigs()
		if listErr != nil || len(levels) == 0 {
			m.mu.Lock()
			m.defaultLevel = minimalLevel()
			m.mu.Unlock()
			return nil
		}

		cfg, err = m.LoadConfig(strings.TrimSuffix(levels[0].Filename, ".json"))
		if err != nil {
			m.mu.Lock()
			m.defaultLevel = minimalLevel()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultLevel = cfg
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a level to disk
func (m *Manager) SaveConfig(name string, cfg *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelsDir, filename)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[name] = cfg
	m.mu.Unlock()

	return nil
}

// minimalLevel is the built-in fallback when the levels directory is empty:
// one red snake, one fruit it can eat, one exit it can reach.
func minimalLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "default",
		Description: "Built-in minimal level",
		Width:       6,
		Height:      6,
		Walls: []engine.Position{
			{X: 0, Y: 5}, {X: 5, Y: 5},
		},
		Fruits: []engine.FruitConfig{
			{Position: engine.Position{X: 3, Y: 1}, Colors: []engine.Color{engine.ColorRed}},
		},
		Exits: []engine.ExitConfig{
			{Position: engine.Position{X: 4, Y: 4}, Color: engine.ColorRed, MinLength: 3},
		},
		Snakes: []engine.SnakeConfig{
			{ID: "red-1", Color: engine.ColorRed, Body: []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
	}
}
