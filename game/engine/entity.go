package engine

// EntityKind enumerates the closed set of entity variants. Every interaction
// site in the resolver and refresher switches exhaustively over this set.
type EntityKind string

const (
	KindWall      EntityKind = "wall"
	KindFruit     EntityKind = "fruit"
	KindExit      EntityKind = "exit"
	KindBox       EntityKind = "box"
	KindIceCube   EntityKind = "ice_cube"
	KindHole      EntityKind = "hole"
	KindPlate     EntityKind = "pressure_plate"
	KindLiftGate  EntityKind = "lift_gate"
	KindLaserGate EntityKind = "laser_gate"
	KindPortal    EntityKind = "portal"
)

// EntityID indexes an entity in the level's Store. The board holds IDs, not
// owning references, so relocating an entity is a footprint update plus an
// index-membership update with nothing left dangling.
type EntityID int

// NoEntity is the null entity index, also used for unpaired portals.
const NoEntity EntityID = -1

// Entity is a tagged-union variant. Kind selects which fields are meaningful:
//
//	Wall, Hole:      Cells[0]
//	Fruit:           Cells[0], Colors (allowed snake colors)
//	Exit:            Cells[0], Color, MinLength
//	Box, IceCube:    Cells (full footprint, mutated in place on relocation)
//	PressurePlate:   Cells[0], Color, Active (occupancy)
//	LiftGate:        Cells[0], Color, Open
//	LaserGate:       Cells[0], Color, Active (armed)
//	Portal:          Cells[0], Color, Active, Link (peer portal)
type Entity struct {
	ID        EntityID   `json:"id"`
	Kind      EntityKind `json:"kind"`
	Cells     []Position `json:"cells"`
	Color     Color      `json:"color,omitempty"`
	Colors    []Color    `json:"colors,omitempty"`
	MinLength int        `json:"min_length,omitempty"`
	Open      bool       `json:"open,omitempty"`
	Active    bool       `json:"active,omitempty"`
	Link      EntityID   `json:"link,omitempty"`
}

// Cell returns the anchor cell. For single-cell kinds this is the entity's
// position; for boxes and cubes it is the first footprint cell.
func (e *Entity) Cell() Position {
	return e.Cells[0]
}

// Occupies reports whether the entity's footprint covers the given cell.
func (e *Entity) Occupies(p Position) bool {
	return containsCell(e.Cells, p)
}

// Pushable reports whether the entity moves under the push/slide protocol.
func (e *Entity) Pushable() bool {
	return e.Kind == KindBox || e.Kind == KindIceCube
}

// AllowsColor reports whether a fruit's allowed set contains the color.
func (e *Entity) AllowsColor(c Color) bool {
	for _, a := range e.Colors {
		if a == c {
			return true
		}
	}
	return false
}

// outOfBoundsWall is the synthetic entity reported for lookups outside the
// board, so resolver logic fails closed instead of panicking.
var outOfBoundsWall = &Entity{ID: NoEntity, Kind: KindWall}

// Store is the arena all level entities live in. Slots of destroyed entities
// stay nil; IDs are never reused within a level, which keeps event
// correlation by collaborators unambiguous.
type Store struct {
	entities []*Entity
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts an entity, assigns its ID, and returns it.
func (s *Store) Add(e *Entity) EntityID {
	e.ID = EntityID(len(s.entities))
	s.entities = append(s.entities, e)
	return e.ID
}

// Get returns the entity for an ID, or nil if it was destroyed.
func (s *Store) Get(id EntityID) *Entity {
	if id < 0 || int(id) >= len(s.entities) {
		return nil
	}
	return s.entities[id]
}

// Remove destroys an entity. The slot is retired, not reused.
func (s *Store) Remove(id EntityID) {
	if id >= 0 && int(id) < len(s.entities) {
		s.entities[id] = nil
	}
}

// ForEach visits every live entity in ID order.
func (s *Store) ForEach(fn func(*Entity)) {
	for _, e := range s.entities {
		if e != nil {
			fn(e)
		}
	}
}

// OfKind returns all live entities of a kind, in ID order.
func (s *Store) OfKind(kind EntityKind) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e != nil && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	n := 0
	for _, e := range s.entities {
		if e != nil {
			n++
		}
	}
	return n
}
