package engine

// Snake is tracked outside the grid: its occupancy spans many cells and is
// queried for collision independent of cell stacking. Body index 0 is the
// head, the last index is the tail; no cell appears twice in one body.
type Snake struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Body  []Position `json:"body"`
}

// Head returns the head cell.
func (s *Snake) Head() Position { return s.Body[0] }

// Tail returns the tail cell.
func (s *Snake) Tail() Position { return s.Body[len(s.Body)-1] }

// Len returns the body length in segments.
func (s *Snake) Len() int { return len(s.Body) }

// End returns the cell of the requested end.
func (s *Snake) End(end SnakeEnd) Position {
	if end == TailEnd {
		return s.Tail()
	}
	return s.Head()
}

// SegmentAt returns the body index occupying the cell, or -1.
func (s *Snake) SegmentAt(p Position) int {
	for i, c := range s.Body {
		if c == p {
			return i
		}
	}
	return -1
}

// Occupies reports whether any body segment covers the cell.
func (s *Snake) Occupies(p Position) bool {
	return s.SegmentAt(p) >= 0
}
