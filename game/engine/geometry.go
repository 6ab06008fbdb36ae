package engine

// ManhattanDistance calculates the Manhattan distance between two positions.
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// UnitDirection returns the unit delta from one position to an adjacent one.
// It reports false when the positions are not exactly one cell apart.
func UnitDirection(from, to Position) (Delta, bool) {
	d := Delta{DX: to.X - from.X, DY: to.Y - from.Y}
	for _, dir := range Directions {
		if d == dir {
			return d, true
		}
	}
	return Delta{}, false
}

// ToroidalDirection returns the unit delta whose wrapped step from `from`
// lands on `to`. It reports false when no single wrapped step reaches `to`.
func ToroidalDirection(from, to Position, b *Board) (Delta, bool) {
	wrapped := b.Wrap(to)
	for _, dir := range Directions {
		if b.Wrap(from.Add(dir)) == wrapped {
			return dir, true
		}
	}
	return Delta{}, false
}

// shiftFootprint returns a footprint displaced by one delta.
func shiftFootprint(cells []Position, d Delta) []Position {
	out := make([]Position, len(cells))
	for i, c := range cells {
		out[i] = c.Add(d)
	}
	return out
}

// containsCell reports whether the footprint covers the cell.
func containsCell(cells []Position, p Position) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
