package engine

// EventType names an outbound domain event.
type EventType string

const (
	EventEntityRelocated       EventType = "entity_relocated"
	EventEntityDestroyed       EventType = "entity_destroyed"
	EventSnakeMoved            EventType = "snake_moved"
	EventSnakeGrew             EventType = "snake_grew"
	EventSnakeSliced           EventType = "snake_sliced"
	EventSnakeRemoved          EventType = "snake_removed"
	EventFruitConsumed         EventType = "fruit_consumed"
	EventFruitSpawned          EventType = "fruit_spawned"
	EventExitConsumed          EventType = "exit_consumed"
	EventHoleFilled            EventType = "hole_filled"
	EventPlateStateChanged     EventType = "plate_state_changed"
	EventLiftGateStateChanged  EventType = "lift_gate_state_changed"
	EventLaserGateStateChanged EventType = "laser_gate_state_changed"
	EventPortalStateChanged    EventType = "portal_state_changed"
	EventLevelWon              EventType = "level_won"
)

// Event is a state delta the presentation collaborators replay as animation.
// The core appends typed event values to a buffer; the session drains and
// dispatches them, preserving order without tying the core to any callback
// mechanism.
type Event interface {
	Type() EventType
}

// EntityRelocated reports a box or ice cube moving. For a slide the event
// covers the full displacement, portal hops included.
type EntityRelocated struct {
	Entity EntityID `json:"entity"`
	From   Position `json:"from"`
	To     Position `json:"to"`
}

func (EntityRelocated) Type() EventType { return EventEntityRelocated }

// EntityDestroyed reports a box or ice cube leaving play.
type EntityDestroyed struct {
	Entity EntityID `json:"entity"`
	Pos    Position `json:"pos"`
	Cause  string   `json:"cause"`
}

func (EntityDestroyed) Type() EventType { return EventEntityDestroyed }

// SnakeMoved reports a committed snake move.
type SnakeMoved struct {
	SnakeID string `json:"snake_id"`
}

func (SnakeMoved) Type() EventType { return EventSnakeMoved }

// SnakeGrew reports a snake growing by one segment.
type SnakeGrew struct {
	SnakeID string `json:"snake_id"`
}

func (SnakeGrew) Type() EventType { return EventSnakeGrew }

// SnakeSliced reports a laser removing part of a snake's body.
type SnakeSliced struct {
	SnakeID string   `json:"snake_id"`
	At      Position `json:"at"`
}

func (SnakeSliced) Type() EventType { return EventSnakeSliced }

// SnakeRemoved reports a snake leaving play, by exit or destruction.
type SnakeRemoved struct {
	SnakeID string `json:"snake_id"`
}

func (SnakeRemoved) Type() EventType { return EventSnakeRemoved }

// FruitConsumed reports a fruit eaten at a position.
type FruitConsumed struct {
	Pos Position `json:"pos"`
}

func (FruitConsumed) Type() EventType { return EventFruitConsumed }

// FruitSpawned reports the respawn fruit an exit leaves behind.
type FruitSpawned struct {
	Entity EntityID `json:"entity"`
	Pos    Position `json:"pos"`
	Colors []Color  `json:"colors"`
}

func (FruitSpawned) Type() EventType { return EventFruitSpawned }

// ExitConsumed reports a snake leaving through an exit.
type ExitConsumed struct {
	Pos Position `json:"pos"`
}

func (ExitConsumed) Type() EventType { return EventExitConsumed }

// HoleFilled reports a hole consumed by a falling object.
type HoleFilled struct {
	HolePos   Position `json:"hole_pos"`
	FillerPos Position `json:"filler_pos"`
}

func (HoleFilled) Type() EventType { return EventHoleFilled }

// PlateStateChanged reports a pressure plate occupancy transition.
type PlateStateChanged struct {
	Plate  EntityID `json:"plate"`
	Active bool     `json:"active"`
}

func (PlateStateChanged) Type() EventType { return EventPlateStateChanged }

// LiftGateStateChanged reports a lift gate opening or closing.
type LiftGateStateChanged struct {
	Gate EntityID `json:"gate"`
	Open bool     `json:"open"`
}

func (LiftGateStateChanged) Type() EventType { return EventLiftGateStateChanged }

// LaserGateStateChanged reports a laser gate arming or disarming.
type LaserGateStateChanged struct {
	Gate   EntityID `json:"gate"`
	Active bool     `json:"active"`
}

func (LaserGateStateChanged) Type() EventType { return EventLaserGateStateChanged }

// PortalStateChanged reports a portal activity transition. Emitted only on
// transition to avoid animation spam.
type PortalStateChanged struct {
	Portal EntityID `json:"portal"`
	Active bool     `json:"active"`
}

func (PortalStateChanged) Type() EventType { return EventPortalStateChanged }

// LevelWon fires exactly once, when the last snake exits.
type LevelWon struct{}

func (LevelWon) Type() EventType { return EventLevelWon }
