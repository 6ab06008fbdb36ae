package engine

import "errors"

var (
	// ErrSnakeNotFound reports a move request for a snake that is not in
	// play. This is a caller bug, not a gameplay rejection.
	ErrSnakeNotFound = errors.New("snake not found")

	// ErrReentrantMove reports a move request issued from inside event
	// dispatch. The core's invariants assume non-reentrant execution;
	// collaborators must queue follow-up moves instead.
	ErrReentrantMove = errors.New("reentrant move request")
)

// Game is the session orchestrator: it owns the live level, dispatches move
// requests to the resolver, and buffers the domain events collaborators
// replay as animation.
type Game struct {
	cfg   *LevelConfig
	level *Level

	busy      bool
	resolving bool
	won       bool

	events     []Event
	history    []MoveRequest
	totalMoves int
}

// NewGame builds a game from a level config. The config is validated and the
// derived plate/gate/portal state is initialized before the first move.
func NewGame(cfg *LevelConfig) (*Game, error) {
	level, err := NewLevel(cfg)
	if err != nil {
		return nil, err
	}
	g := &Game{cfg: cfg, level: level}
	// Derive initial gate and portal state. Construction transitions are
	// not deltas anyone animates, so the buffer is cleared afterwards.
	g.refreshState()
	g.events = nil
	return g, nil
}

// Level exposes the live level state, primarily for tests and snapshots.
func (g *Game) Level() *Level { return g.level }

// Config returns the level config the game was built from.
func (g *Game) Config() *LevelConfig { return g.cfg }

// Won reports whether the last snake has exited.
func (g *Game) Won() bool { return g.won }

// SetPresentationBusy records the advisory busy flag from the presentation
// collaborator. While set, all move requests are rejected; the core never
// waits or blocks on it.
func (g *Game) SetPresentationBusy(busy bool) { g.busy = busy }

// PresentationBusy returns the advisory busy flag.
func (g *Game) PresentationBusy() bool { return g.busy }

// TotalMoves returns the cumulative accepted move count, kept across resets.
func (g *Game) TotalMoves() int { return g.totalMoves }

// History returns the accepted moves since the level was loaded or reset.
// Replaying them against a fresh game reproduces the current state.
func (g *Game) History() []MoveRequest {
	return append([]MoveRequest(nil), g.history...)
}

// DrainEvents returns and clears the pending event buffer.
func (g *Game) DrainEvents() []Event {
	events := g.events
	g.events = nil
	return events
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// Reset reloads the level from its config. The cumulative move total
// survives; the replayable history does not.
func (g *Game) Reset() error {
	level, err := NewLevel(g.cfg)
	if err != nil {
		return err
	}
	g.level = level
	g.won = false
	g.events = nil
	g.history = nil
	g.refreshState()
	g.events = nil
	return nil
}

// RequestMove validates a move request and, if legal, executes it together
// with all its cascades: pushes, teleports, consumption, hazard contact, and
// the state refresh. A rejected move performs no mutation. The returned
// result carries the drained events of an accepted move in emission order.
func (g *Game) RequestMove(req MoveRequest) (*MoveResult, error) {
	if g.resolving {
		return nil, ErrReentrantMove
	}
	g.resolving = true
	defer func() { g.resolving = false }()

	if g.busy {
		return &MoveResult{Reason: RejectAnimationInProgress}, nil
	}

	snake := g.level.Snake(req.SnakeID)
	if snake == nil {
		return nil, ErrSnakeNotFound
	}

	plan, reject := g.validateMove(snake, req)
	if reject != "" {
		return &MoveResult{Reason: reject}, nil
	}

	g.execute(plan)
	g.history = append(g.history, req)
	g.totalMoves++

	return &MoveResult{Accepted: true, Events: g.DrainEvents()}, nil
}
