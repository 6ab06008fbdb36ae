package session

import (
	"errors"
	"testing"
	"time"

	"github.com/snakefall/snakefall/game/engine"
)

func testLevelConfig() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:   "Test Garden",
		Width:  8,
		Height: 8,
		Snakes: []engine.SnakeConfig{
			{ID: "red-1", Color: engine.ColorRed, Body: []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
	}
}

func TestCreateGeneratesUUID(t *testing.T) {
	m := NewManager()

	first, err := m.Create("", testLevelConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == "" {
		t.Fatal("generated ID is empty")
	}

	second, err := m.Create("", testLevelConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == second.ID {
		t.Error("two generated sessions share an ID")
	}
}

func TestCreateDuplicateID(t *testing.T) {
	m := NewManager()

	if _, err := m.Create("abc", testLevelConfig()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("abc", testLevelConfig()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("err = %v, want ErrSessionAlreadyExists", err)
	}
	// Case-insensitive collision
	if _, err := m.Create("ABC", testLevelConfig()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("err = %v, want case-insensitive ErrSessionAlreadyExists", err)
	}
}

func TestCreateInvalidLevel(t *testing.T) {
	m := NewManager()
	cfg := testLevelConfig()
	cfg.Snakes = nil

	if _, err := m.Create("", cfg); err == nil {
		t.Fatal("Create with invalid level succeeded")
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	m := NewManager()

	created, err := m.Create("MySession", testLevelConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := m.Get("mysession")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Error("Get returned a different session")
	}

	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	m := NewManager()

	first, err := m.GetOrCreate("shared", testLevelConfig())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := m.GetOrCreate("shared", testLevelConfig())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Error("GetOrCreate created a second session for the same ID")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
}

func TestDelete(t *testing.T) {
	m := NewManager()

	if _, err := m.Create("gone", testLevelConfig()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session still reachable after delete: %v", err)
	}
	if err := m.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestUpdateLastAccessed(t *testing.T) {
	m := NewManager()

	sess, err := m.Create("tick", testLevelConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := sess.LastAccessedAt

	time.Sleep(10 * time.Millisecond)
	if err := m.UpdateLastAccessed("tick"); err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
	if !sess.LastAccessedAt.After(before) {
		t.Error("LastAccessedAt did not advance")
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	m := NewManager()

	stale, err := m.Create("stale", testLevelConfig())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("fresh", testLevelConfig()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := m.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := m.Get("stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("stale session survived cleanup")
	}
	if _, err := m.Get("fresh"); err != nil {
		t.Errorf("fresh session removed by cleanup: %v", err)
	}
}

func TestSaveWithoutPersistenceIsNoop(t *testing.T) {
	m := NewManager()

	if _, err := m.Create("quiet", testLevelConfig()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Save("quiet"); err != nil {
		t.Errorf("Save without persistence: %v, want nil", err)
	}
}
