package service

import (
	"time"

	"github.com/snakefall/snakefall/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelName      string              `json:"level_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot    `json:"snapshot"`
	LevelConfig    *engine.LevelConfig `json:"level_config"`
}

// MoveOutcome contains the result of a move operation. Rejections are part of
// the outcome, not errors: an outcome with Accepted=false carries the typed
// reason and no events.
type MoveOutcome struct {
	Accepted   bool                `json:"accepted"`
	Reason     engine.RejectReason `json:"reason,omitempty"`
	Message    string              `json:"message"`
	Events     []GameEvent         `json:"events,omitempty"`
	Snapshot   *engine.Snapshot    `json:"snapshot"`
	Won        bool                `json:"won"`
	TotalMoves int                 `json:"total_moves"`
}

// GameEvent is the transport-friendly rendering of an engine event
type GameEvent struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRequest `json:"moves"`
	TotalMoves  int                  `json:"total_moves"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	HasNext     bool                 `json:"has_next"`
	HasPrevious bool                 `json:"has_previous"`
}

// LevelInfo provides information about a level configuration
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SnakeCount  int    `json:"snake_count"`
}
