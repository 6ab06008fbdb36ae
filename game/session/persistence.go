package session

import (
	"time"

	"github.com/snakefall/snakefall/game/engine"
	"github.com/snakefall/snakefall/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions. Instead
// of serializing live simulation state, it stores the level identity plus the
// accepted move log; loading rebuilds the engine and replays the moves, which
// reproduces the state exactly because accepted moves are deterministic.
type PersistedSessionData struct {
	ID             string               `json:"id"`
	LevelName      string               `json:"level_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	Moves          []engine.MoveRequest `json:"moves"`
}
