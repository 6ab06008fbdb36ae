package engine

import "sort"

// LinkRegistry pairs same-colored portals and groups same-colored plates and
// gates. It is built once per level construction; the IDs it holds are stable
// for the level's lifetime because store slots are never reused.
type LinkRegistry struct {
	plates     map[Color][]EntityID
	liftGates  map[Color][]EntityID
	laserGates map[Color][]EntityID
	portals    map[Color][]EntityID
}

// BuildLinks scans the store, groups plates and gates by color, and links
// portal pairs. A color with exactly two portals links them to each other;
// any other portal count leaves those portals unlinked and therefore inert.
func BuildLinks(store *Store) *LinkRegistry {
	r := &LinkRegistry{
		plates:     make(map[Color][]EntityID),
		liftGates:  make(map[Color][]EntityID),
		laserGates: make(map[Color][]EntityID),
		portals:    make(map[Color][]EntityID),
	}

	store.ForEach(func(e *Entity) {
		switch e.Kind {
		case KindPlate:
			r.plates[e.Color] = append(r.plates[e.Color], e.ID)
		case KindLiftGate:
			r.liftGates[e.Color] = append(r.liftGates[e.Color], e.ID)
		case KindLaserGate:
			r.laserGates[e.Color] = append(r.laserGates[e.Color], e.ID)
		case KindPortal:
			r.portals[e.Color] = append(r.portals[e.Color], e.ID)
		}
	})

	for _, ids := range r.portals {
		if len(ids) == 2 {
			store.Get(ids[0]).Link = ids[1]
			store.Get(ids[1]).Link = ids[0]
			continue
		}
		for _, id := range ids {
			store.Get(id).Link = NoEntity
		}
	}

	return r
}

// Plates returns the plate IDs of a color group.
func (r *LinkRegistry) Plates(color Color) []EntityID { return r.plates[color] }

// LiftGates returns the lift-gate IDs of a color group.
func (r *LinkRegistry) LiftGates(color Color) []EntityID { return r.liftGates[color] }

// LaserGates returns the laser-gate IDs of a color group.
func (r *LinkRegistry) LaserGates(color Color) []EntityID { return r.laserGates[color] }

// Portals returns the portal IDs of a color group.
func (r *LinkRegistry) Portals(color Color) []EntityID { return r.portals[color] }

// GateColors returns every color that has at least one plate or gate, sorted
// so refresh passes iterate deterministically.
func (r *LinkRegistry) GateColors() []Color {
	seen := make(map[Color]bool)
	for c := range r.plates {
		seen[c] = true
	}
	for c := range r.liftGates {
		seen[c] = true
	}
	for c := range r.laserGates {
		seen[c] = true
	}
	colors := make([]Color, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	return colors
}
