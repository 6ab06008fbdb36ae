package engine

// Board owns the width×height grid. Each cell holds an unordered set of
// entity IDs; stacking is expected (a cell may hold a hole, a gate, and a
// box at once). Absence of any entity means open floor.
type Board struct {
	width  int
	height int
	cells  [][]map[EntityID]struct{}
	store  *Store
}

// NewBoard creates an empty board backed by the given entity store.
func NewBoard(width, height int, store *Store) *Board {
	cells := make([][]map[EntityID]struct{}, height)
	for y := range cells {
		cells[y] = make([]map[EntityID]struct{}, width)
		for x := range cells[y] {
			cells[y][x] = make(map[EntityID]struct{})
		}
	}
	return &Board{width: width, height: height, cells: cells, store: store}
}

// Width returns the board width in cells.
func (b *Board) Width() int { return b.width }

// Height returns the board height in cells.
func (b *Board) Height() int { return b.height }

// InBounds reports whether the position lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Wrap maps a position onto the board toroidally.
func (b *Board) Wrap(p Position) Position {
	x := ((p.X % b.width) + b.width) % b.width
	y := ((p.Y % b.height) + b.height) % b.height
	return Position{X: x, Y: y}
}

// EntitiesAt returns the entities stacked on a cell in ID order.
// Out-of-bounds lookups report a synthetic wall, never panic.
func (b *Board) EntitiesAt(p Position) []*Entity {
	if !b.InBounds(p) {
		return []*Entity{outOfBoundsWall}
	}
	set := b.cells[p.Y][p.X]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Entity, 0, len(set))
	for id := range set {
		if e := b.store.Get(id); e != nil {
			out = append(out, e)
		}
	}
	// ID order keeps iteration deterministic for event emission.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Add records an entity ID on a cell. Adding outside the board is a no-op.
func (b *Board) Add(p Position, id EntityID) {
	if b.InBounds(p) {
		b.cells[p.Y][p.X][id] = struct{}{}
	}
}

// Remove clears an entity ID from a cell.
func (b *Board) Remove(p Position, id EntityID) {
	if b.InBounds(p) {
		delete(b.cells[p.Y][p.X], id)
	}
}

// HasKind reports whether any entity of the kind occupies the cell.
// Out-of-bounds cells report as walls (fail-closed).
func (b *Board) HasKind(p Position, kind EntityKind) bool {
	return b.FirstKind(p, kind) != nil
}

// FirstKind returns the lowest-ID entity of the kind on the cell, or nil.
func (b *Board) FirstKind(p Position, kind EntityKind) *Entity {
	if !b.InBounds(p) {
		if kind == KindWall {
			return outOfBoundsWall
		}
		return nil
	}
	var found *Entity
	for id := range b.cells[p.Y][p.X] {
		e := b.store.Get(id)
		if e == nil || e.Kind != kind {
			continue
		}
		if found == nil || e.ID < found.ID {
			found = e
		}
	}
	return found
}

// Place indexes every footprint cell of an entity.
func (b *Board) Place(e *Entity) {
	for _, c := range e.Cells {
		b.Add(c, e.ID)
	}
}

// Unplace removes every footprint cell of an entity from the index.
func (b *Board) Unplace(e *Entity) {
	for _, c := range e.Cells {
		b.Remove(c, e.ID)
	}
}
