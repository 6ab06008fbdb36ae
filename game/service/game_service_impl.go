package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/snakefall/snakefall/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// getLevelID returns the level_id for a given display name, used for
// consistent API responses
func (s *gameServiceImpl) getLevelID(displayName string) string {
	available, err := s.levels.ListConfigs()
	if err == nil {
		for _, info := range available {
			if info.Name == displayName {
				return info.LevelID
			}
		}
	}
	if displayName == "" {
		return "default"
	}
	return displayName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg *engine.LevelConfig
	var err error
	if levelName != "" {
		cfg, err = s.levels.LoadConfig(levelName)
		if err != nil {
			available, listErr := s.levels.ListConfigs()
			if listErr == nil && len(available) > 0 {
				var ids []string
				for _, info := range available {
					ids = append(ids, info.LevelID)
				}
				return nil, fmt.Errorf("level %q not found, available levels: %v", levelName, ids)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		cfg = s.levels.GetDefault()
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	levelID := levelName
	if levelID == "" {
		levelID = s.getLevelID(cfg.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      levelID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Game.Snapshot(),
		LevelConfig:    session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		LevelName:      s.getLevelID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Game.Snapshot(),
		LevelConfig:    session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			LevelName:      s.getLevelID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			Snapshot:       sess.Game.Snapshot(),
			LevelConfig:    sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move request for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req engine.MoveRequest) (*MoveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result, err := sess.Game.RequestMove(req)
	if err != nil {
		return nil, fmt.Errorf("move request failed: %w", err)
	}

	outcome := &MoveOutcome{
		Accepted:   result.Accepted,
		Reason:     result.Reason,
		Snapshot:   sess.Game.Snapshot(),
		Won:        sess.Game.Won(),
		TotalMoves: sess.Game.TotalMoves(),
	}

	if result.Accepted {
		outcome.Message = fmt.Sprintf("Moved %s of %s to (%d,%d)", req.End, req.SnakeID, req.Target.X, req.Target.Y)
		outcome.Events = describeEvents(result.Events)

		// Auto-save session after an accepted move
		if err := s.sessions.Save(sessionID); err != nil {
			log.WithError(err).WithField("session_id", sessionID).Warn("failed to persist session after move")
		}
	} else {
		outcome.Message = rejectMessage(result.Reason)
	}

	return outcome, nil
}

// Reset reloads a session's level from its config
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if err := sess.Game.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.WithError(err).WithField("session_id", sessionID).Warn("failed to persist session after reset")
	}

	return sess.Game.Snapshot(), nil
}

// SetPresentationBusy records the advisory busy flag for a session
func (s *gameServiceImpl) SetPresentationBusy(ctx context.Context, sessionID string, busy bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Game.SetPresentationBusy(busy)
	return nil
}

// GetSnapshot retrieves the current observable game state
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Game.Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Game.History()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveRequest
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}
	if moves == nil {
		moves = []engine.MoveRequest{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns available level configurations
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListConfigs()
}

// LoadLevel loads a specific level configuration
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	return s.levels.LoadConfig(levelName)
}

// SaveLevel saves a level configuration to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, cfg *engine.LevelConfig) error {
	return s.levels.SaveConfig(levelName, cfg)
}

// rejectMessage renders a typed rejection for humans
func rejectMessage(reason engine.RejectReason) string {
	switch reason {
	case engine.RejectAnimationInProgress:
		return "Presentation is busy, try again after the animation finishes"
	case engine.RejectIllegalEnd:
		return "That end of the snake cannot move"
	case engine.RejectNotAdjacent:
		return "Target cell is not adjacent to the moving end"
	case engine.RejectObstructed:
		return "Target cell is obstructed"
	case engine.RejectInteractionDenied:
		return "The snake refuses that interaction"
	default:
		return string(reason)
	}
}

// describeEvents renders engine events for transports
func describeEvents(events []engine.Event) []GameEvent {
	out := make([]GameEvent, 0, len(events))
	now := time.Now()

	for _, e := range events {
		ge := GameEvent{Type: string(e.Type()), Timestamp: now}

		switch ev := e.(type) {
		case engine.EntityRelocated:
			ge.Message = fmt.Sprintf("Entity %d moved from (%d,%d) to (%d,%d)", ev.Entity, ev.From.X, ev.From.Y, ev.To.X, ev.To.Y)
			ge.Position = &ev.To
		case engine.EntityDestroyed:
			ge.Message = fmt.Sprintf("Entity %d destroyed by %s at (%d,%d)", ev.Entity, ev.Cause, ev.Pos.X, ev.Pos.Y)
			ge.Position = &ev.Pos
		case engine.SnakeMoved:
			ge.Message = fmt.Sprintf("Snake %s moved", ev.SnakeID)
		case engine.SnakeGrew:
			ge.Message = fmt.Sprintf("Snake %s grew", ev.SnakeID)
		case engine.SnakeSliced:
			ge.Message = fmt.Sprintf("Snake %s sliced at (%d,%d)", ev.SnakeID, ev.At.X, ev.At.Y)
			ge.Position = &ev.At
		case engine.SnakeRemoved:
			ge.Message = fmt.Sprintf("Snake %s left play", ev.SnakeID)
		case engine.FruitConsumed:
			ge.Message = fmt.Sprintf("Fruit eaten at (%d,%d)", ev.Pos.X, ev.Pos.Y)
			ge.Position = &ev.Pos
		case engine.FruitSpawned:
			ge.Message = fmt.Sprintf("Fruit spawned at (%d,%d)", ev.Pos.X, ev.Pos.Y)
			ge.Position = &ev.Pos
		case engine.ExitConsumed:
			ge.Message = fmt.Sprintf("Exit used at (%d,%d)", ev.Pos.X, ev.Pos.Y)
			ge.Position = &ev.Pos
		case engine.HoleFilled:
			ge.Message = fmt.Sprintf("Hole at (%d,%d) filled", ev.HolePos.X, ev.HolePos.Y)
			ge.Position = &ev.HolePos
		case engine.PlateStateChanged:
			ge.Message = fmt.Sprintf("Pressure plate %d active=%t", ev.Plate, ev.Active)
		case engine.LiftGateStateChanged:
			ge.Message = fmt.Sprintf("Lift gate %d open=%t", ev.Gate, ev.Open)
		case engine.LaserGateStateChanged:
			ge.Message = fmt.Sprintf("Laser gate %d active=%t", ev.Gate, ev.Active)
		case engine.PortalStateChanged:
			ge.Message = fmt.Sprintf("Portal %d active=%t", ev.Portal, ev.Active)
		case engine.LevelWon:
			ge.Message = "Level complete, every snake has exited"
		default:
			ge.Message = string(e.Type())
		}

		out = append(out, ge)
	}

	return out
}
