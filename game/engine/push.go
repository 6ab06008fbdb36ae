package engine

// pushPlan is the computed final resting place of a displaced box or cube.
type pushPlan struct {
	entity    *Entity
	cells     []Position // final footprint
	intoHoles bool       // whole footprint lands on holes: terminal
}

// planDisplacement delegates to the push protocol for boxes and the slide
// protocol for ice cubes. A nil plan means the displacement is illegal.
func (g *Game) planDisplacement(obj *Entity, dir Delta) *pushPlan {
	switch obj.Kind {
	case KindBox:
		return g.planBoxPush(obj, dir)
	case KindIceCube:
		return g.planCubeSlide(obj, dir)
	default:
		return nil
	}
}

// planBoxPush computes the single-hop landing of a pushed box. A single-cell
// box landing on an active portal takes one teleport hop, not a chain.
func (g *Game) planBoxPush(box *Entity, dir Delta) *pushPlan {
	l := g.level

	landing := shiftFootprint(box.Cells, dir)
	if len(landing) == 1 {
		if portal := l.ActivePortalAt(landing[0]); portal != nil {
			landing = []Position{l.Store.Get(portal.Link).Cell()}
		}
	}
	if !g.landingClear(box, landing) {
		return nil
	}
	return &pushPlan{entity: box, cells: landing, intoHoles: g.allHoles(landing)}
}

// planCubeSlide computes the continuous slide of an ice cube: one cell at a
// time in the push direction until obstructed, swallowed by holes, or the
// iteration bound trips. An active portal relays a single-cell cube to its
// linked cell without terminating momentum.
func (g *Game) planCubeSlide(cube *Entity, dir Delta) *pushPlan {
	l := g.level

	cur := append([]Position(nil), cube.Cells...)
	moved := false
	intoHoles := false

	for step := 0; step < MaxSlideSteps; step++ {
		next := shiftFootprint(cur, dir)
		if len(next) == 1 {
			if portal := l.ActivePortalAt(next[0]); portal != nil {
				next = []Position{l.Store.Get(portal.Link).Cell()}
			}
		}
		if !g.landingClear(cube, next) {
			break
		}
		cur = next
		moved = true
		if g.allHoles(cur) {
			intoHoles = true
			break
		}
	}

	// Legal only if the cube moves at least one cell.
	if !moved {
		return nil
	}
	return &pushPlan{entity: cube, cells: cur, intoHoles: intoHoles}
}

// landingClear checks the shared obstruction rules for a displaced object:
// in bounds, free of snakes, free of walls and other pushables, and any lift
// gate present must be open. Holes and laser gates do not block; they are
// handled after commit. The object's own current cells read as clear.
func (g *Game) landingClear(obj *Entity, landing []Position) bool {
	l := g.level
	for _, c := range landing {
		if !l.Board.InBounds(c) {
			return false
		}
		if s, _ := l.SnakeAt(c); s != nil {
			return false
		}
		for _, e := range l.Board.EntitiesAt(c) {
			if e == obj {
				continue
			}
			switch e.Kind {
			case KindWall, KindBox, KindIceCube:
				return false
			case KindLiftGate:
				if !e.Open {
					return false
				}
			}
		}
	}
	return true
}

// allHoles reports whether every cell of the footprint lies on a hole.
// Partial overlap does not trigger consumption.
func (g *Game) allHoles(cells []Position) bool {
	for _, c := range cells {
		if !g.level.Board.HasKind(c, KindHole) {
			return false
		}
	}
	return len(cells) > 0
}

// relocateObject commits a push plan: index update, hole consumption, and
// laser arrival. Footprints are mutated in place so the entity keeps its
// identity for event correlation.
func (g *Game) relocateObject(plan *pushPlan) {
	l := g.level
	obj := plan.entity
	from := obj.Cell()

	l.Board.Unplace(obj)
	obj.Cells = plan.cells
	g.emit(EntityRelocated{Entity: obj.ID, From: from, To: obj.Cell()})

	if plan.intoHoles {
		for _, c := range plan.cells {
			if hole := l.Board.FirstKind(c, KindHole); hole != nil {
				l.Board.Unplace(hole)
				l.Store.Remove(hole.ID)
				g.emit(HoleFilled{HolePos: c, FillerPos: from})
			}
		}
		l.Store.Remove(obj.ID)
		g.emit(EntityDestroyed{Entity: obj.ID, Pos: obj.Cell(), Cause: "hole"})
		return
	}

	l.Board.Place(obj)

	if g.footprintOnArmedLasers(obj) {
		g.destroyObject(obj, "laser")
	}
}

// footprintOnArmedLasers reports whether every footprint cell lies on an
// armed laser gate. Partial overlap survives.
func (g *Game) footprintOnArmedLasers(obj *Entity) bool {
	for _, c := range obj.Cells {
		laser := g.level.Board.FirstKind(c, KindLaserGate)
		if laser == nil || !laser.Active {
			return false
		}
	}
	return len(obj.Cells) > 0
}

// destroyObject removes a box or cube from play.
func (g *Game) destroyObject(obj *Entity, cause string) {
	g.level.Board.Unplace(obj)
	g.level.Store.Remove(obj.ID)
	g.emit(EntityDestroyed{Entity: obj.ID, Pos: obj.Cell(), Cause: cause})
}
