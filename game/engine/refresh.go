package engine

// refreshState recomputes all derived state after a committed move or object
// relocation. Three ordered passes; gate state never feeds back into plate
// occupancy within the same tick, so a single run suffices.
func (g *Game) refreshState() {
	g.refreshPlates()
	g.refreshGates()
	g.refreshPortals()
}

// refreshPlates sets each plate's occupancy: true exactly while a snake
// segment, box, or ice cube stands on its cell. Events only on transition.
func (g *Game) refreshPlates() {
	l := g.level
	for _, plate := range l.Store.OfKind(KindPlate) {
		occupied := l.CellOccupied(plate.Cell())
		if occupied != plate.Active {
			plate.Active = occupied
			g.emit(PlateStateChanged{Plate: plate.ID, Active: occupied})
		}
	}
}

// refreshGates derives gate state per color group. Lift gates open while all
// plates of the group are active; they only close once their cell is vacated
// (the safety lock). Laser gates are the logical inverse and kill on arm.
func (g *Game) refreshGates() {
	l := g.level
	for _, color := range l.Links.GateColors() {
		plates := l.Links.Plates(color)
		allActive := len(plates) > 0
		for _, id := range plates {
			if p := l.Store.Get(id); p == nil || !p.Active {
				allActive = false
				break
			}
		}

		for _, id := range l.Links.LiftGates(color) {
			gate := l.Store.Get(id)
			if gate == nil {
				continue
			}
			if allActive && !gate.Open {
				gate.Open = true
				g.emit(LiftGateStateChanged{Gate: gate.ID, Open: true})
			} else if !allActive && gate.Open && !l.CellOccupied(gate.Cell()) {
				gate.Open = false
				g.emit(LiftGateStateChanged{Gate: gate.ID, Open: false})
			}
		}

		for _, id := range l.Links.LaserGates(color) {
			laser := l.Store.Get(id)
			if laser == nil {
				continue
			}
			active := !allActive
			if active == laser.Active {
				continue
			}
			laser.Active = active
			g.emit(LaserGateStateChanged{Gate: laser.ID, Active: active})
			if active {
				// Kill-on-arm: anything standing on the cell dies now,
				// not on the next move.
				g.killOnArm(laser.Cell())
			}
		}
	}
}

// killOnArm destroys or slices whatever occupies a newly armed laser cell.
// Objects die only when their whole footprint is on armed lasers.
func (g *Game) killOnArm(cell Position) {
	l := g.level
	if snake, _ := l.SnakeAt(cell); snake != nil {
		g.sliceSnake(snake, cell)
	}
	if obj := l.ObjectAt(cell); obj != nil && g.footprintOnArmedLasers(obj) {
		g.destroyObject(obj, "laser")
	}
}

// refreshPortals recomputes each linked portal's activity from destination
// obstruction. Unlinked portals stay inert. Events only on transition, to
// avoid animation spam.
func (g *Game) refreshPortals() {
	l := g.level
	l.Store.ForEach(func(e *Entity) {
		if e.Kind != KindPortal || e.Link == NoEntity {
			return
		}
		peer := l.Store.Get(e.Link)
		active := peer != nil && l.DestinationClear(peer.Cell())
		if active != e.Active {
			e.Active = active
			g.emit(PortalStateChanged{Portal: e.ID, Active: active})
		}
	})
}
