package service

import (
	"context"
	"time"

	"github.com/snakefall/snakefall/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, req engine.MoveRequest) (*MoveOutcome, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SetPresentationBusy(ctx context.Context, sessionID string, busy bool) error

	// Game State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, levelName string, cfg *engine.LevelConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cfg *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, cfg *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level configuration loading
type LevelManager interface {
	LoadConfig(name string) (*engine.LevelConfig, error)
	ListConfigs() ([]*LevelInfo, error)
	GetDefault() *engine.LevelConfig
	SaveConfig(name string, cfg *engine.LevelConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Game           *engine.Game
	Config         *engine.LevelConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
