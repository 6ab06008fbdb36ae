package engine

// Level is the live simulation state: the board index, the entity arena, the
// snake collection, and the link registry. The movement resolver and state
// refresher are its only writers, invoked synchronously.
type Level struct {
	Board  *Board
	Store  *Store
	Snakes []*Snake
	Links  *LinkRegistry
	Rules  Rules
}

// Snake returns the live snake with the given ID, or nil.
func (l *Level) Snake(id string) *Snake {
	for _, s := range l.Snakes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SnakeAt returns the snake and body index occupying a cell, or (nil, -1).
func (l *Level) SnakeAt(p Position) (*Snake, int) {
	for _, s := range l.Snakes {
		if i := s.SegmentAt(p); i >= 0 {
			return s, i
		}
	}
	return nil, -1
}

// RemoveSnake drops a snake from play.
func (l *Level) RemoveSnake(id string) {
	for i, s := range l.Snakes {
		if s.ID == id {
			l.Snakes = append(l.Snakes[:i], l.Snakes[i+1:]...)
			return
		}
	}
}

// ObjectAt returns the box or ice cube whose footprint covers the cell.
func (l *Level) ObjectAt(p Position) *Entity {
	for _, e := range l.Board.EntitiesAt(p) {
		if e.Pushable() {
			return e
		}
	}
	return nil
}

// CellOccupied reports whether a snake segment, box, or ice cube stands on
// the cell. This is the occupancy plates sense and the lift-gate safety lock
// checks before closing.
func (l *Level) CellOccupied(p Position) bool {
	if s, _ := l.SnakeAt(p); s != nil {
		return true
	}
	return l.ObjectAt(p) != nil
}

// DestinationClear reports whether a portal destination is unobstructed:
// a wall, box, ice cube, snake segment, or closed lift gate at the linked
// cell all deactivate the portal.
func (l *Level) DestinationClear(p Position) bool {
	if !l.Board.InBounds(p) {
		return false
	}
	if s, _ := l.SnakeAt(p); s != nil {
		return false
	}
	for _, e := range l.Board.EntitiesAt(p) {
		switch e.Kind {
		case KindWall, KindBox, KindIceCube:
			return false
		case KindLiftGate:
			if !e.Open {
				return false
			}
		}
	}
	return true
}

// ActivePortalAt returns the portal on the cell if it is linked and active.
func (l *Level) ActivePortalAt(p Position) *Entity {
	portal := l.Board.FirstKind(p, KindPortal)
	if portal == nil || portal.Link == NoEntity || !portal.Active {
		return nil
	}
	return portal
}
