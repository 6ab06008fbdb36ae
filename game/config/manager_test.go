package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/snakefall/snakefall/game/engine"
)

func writeLevel(t *testing.T, dir, name string, cfg *engine.LevelConfig) {
	t.Helper()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("marshal level: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("write level: %v", err)
	}
}

func sampleLevel(name string) *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        name,
		Description: "test level",
		Width:       8,
		Height:      8,
		Snakes: []engine.SnakeConfig{
			{ID: "red-1", Color: engine.ColorRed, Body: []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
	}
}

func TestNewManagerMissingDirectory(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("NewManager with missing directory succeeded")
	}
}

func TestLoadConfigAndCache(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg, err := m.LoadConfig("garden")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Garden" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Garden")
	}

	// Remove the file; the cached copy must still serve.
	if err := os.Remove(filepath.Join(dir, "garden.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := m.LoadConfig("garden"); err != nil {
		t.Errorf("LoadConfig after file removal: %v, want cached hit", err)
	}
}

func TestLoadConfigNotFound(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := m.LoadConfig("volcano"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("err = %v, want ErrLevelNotFound", err)
	}
}

func TestLoadConfigRejectsInvalidLevel(t *testing.T) {
	dir := t.TempDir()
	broken := sampleLevel("Broken")
	broken.Snakes = nil
	writeLevel(t, dir, "broken", broken)
	writeLevel(t, dir, "garden", sampleLevel("Garden"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := m.LoadConfig("broken"); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("err = %v, want ErrInvalidLevel", err)
	}
}

func TestListConfigsSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))
	writeLevel(t, dir, "cavern", sampleLevel("Cavern"))
	broken := sampleLevel("Broken")
	broken.Width = 0
	writeLevel(t, dir, "broken", broken)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a level"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	levels, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("ListConfigs = %d levels, want 2 valid ones", len(levels))
	}
	for _, info := range levels {
		if info.LevelID != "garden" && info.LevelID != "cavern" {
			t.Errorf("unexpected level %q in listing", info.LevelID)
		}
		if info.SnakeCount != 1 {
			t.Errorf("level %q SnakeCount = %d, want 1", info.LevelID, info.SnakeCount)
		}
	}
}

func TestDefaultLevelSelection(t *testing.T) {
	t.Run("garden preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeLevel(t, dir, "cavern", sampleLevel("Cavern"))
		writeLevel(t, dir, "garden", sampleLevel("Garden"))

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		if got := m.GetDefault().Name; got != "Garden" {
			t.Errorf("default = %q, want Garden", got)
		}
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		def := m.GetDefault()
		if def == nil {
			t.Fatal("no default level")
		}
		if err := engine.ValidateLevelConfig(def); err != nil {
			t.Errorf("built-in default level is invalid: %v", err)
		}
	})
}

func TestSetDefault(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))
	writeLevel(t, dir, "cavern", sampleLevel("Cavern"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.SetDefault("cavern"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if got := m.GetDefault().Name; got != "Cavern" {
		t.Errorf("default = %q, want Cavern", got)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := sampleLevel("Meadow")
	cfg.Portals = []engine.ColoredCell{
		{Position: engine.Position{X: 2, Y: 2}, Color: engine.ColorGreen},
		{Position: engine.Position{X: 6, Y: 6}, Color: engine.ColorGreen},
	}
	if err := m.SaveConfig("meadow", cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	// Fresh manager reads it back from disk.
	m2, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	loaded, err := m2.LoadConfig("meadow")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Name != "Meadow" || len(loaded.Portals) != 2 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "garden", sampleLevel("Garden"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	broken := sampleLevel("Broken")
	broken.Snakes[0].Body = nil
	if err := m.SaveConfig("broken", broken); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("err = %v, want ErrInvalidLevel", err)
	}
}
