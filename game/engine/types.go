package engine

// Color tags snakes, fruit, exits, and plate/gate/portal groups.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"

	// Validation constants
	MinBoardSize = 2
	MaxBoardSize = 64

	// MaxSlideSteps bounds an ice-cube slide so portal pairs facing each
	// other cannot loop forever.
	MaxSlideSteps = 50

	WebSocketBufferSize = 256
)

// SnakeEnd identifies which end of a snake a move request relocates.
type SnakeEnd string

const (
	HeadEnd SnakeEnd = "head"
	TailEnd SnakeEnd = "tail"
)

// Position represents x,y cell coordinates, origin bottom-left.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by the given delta.
func (p Position) Add(d Delta) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Delta is a cell displacement. Unit deltas encode the four move directions.
type Delta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// The four unit directions.
var (
	DirUp    = Delta{0, 1}
	DirDown  = Delta{0, -1}
	DirLeft  = Delta{-1, 0}
	DirRight = Delta{1, 0}
)

// Directions lists the unit deltas in a fixed order.
var Directions = []Delta{DirUp, DirDown, DirLeft, DirRight}

// RejectReason classifies why a move request was refused. Rejections are
// results, not faults: the simulation has no unrecoverable runtime errors
// under normal operation.
type RejectReason string

const (
	// RejectAnimationInProgress means the presentation layer reported
	// itself busy; retry once the advisory flag clears.
	RejectAnimationInProgress RejectReason = "animation_in_progress"

	// RejectIllegalEnd means a non-reversible snake attempted a tail move.
	RejectIllegalEnd RejectReason = "illegal_end"

	// RejectNotAdjacent means the target fails the distance/adjacency rule.
	RejectNotAdjacent RejectReason = "not_adjacent"

	// RejectObstructed means the target is blocked by a wall, closed gate,
	// snake body, or an unsupported push/slide.
	RejectObstructed RejectReason = "obstructed"

	// RejectInteractionDenied means the occupying entity refused entry,
	// e.g. a wrong-color fruit or exit, or a hole in front of a snake.
	RejectInteractionDenied RejectReason = "interaction_denied"
)

// Rules holds the per-level color privileges.
type Rules struct {
	// ReversibleColor is the one snake color allowed to move its tail end.
	ReversibleColor Color `json:"reversible_color"`
	// WrappingColor is the one snake color whose moves wrap toroidally.
	WrappingColor Color `json:"wrapping_color"`
}

// DefaultRules returns the standard color privileges.
func DefaultRules() Rules {
	return Rules{ReversibleColor: ColorBlue, WrappingColor: ColorPurple}
}

// MoveRequest is a discrete move fed in by the input collaborator.
type MoveRequest struct {
	SnakeID string   `json:"snake_id"`
	End     SnakeEnd `json:"end"`
	Target  Position `json:"target"`
}

// MoveResult is the typed outcome of a move request. A rejected move carries
// its reason and performed no mutation; an accepted move carries the domain
// events its cascades produced, in emission order.
type MoveResult struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Events   []Event      `json:"events,omitempty"`
}
