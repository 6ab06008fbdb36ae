package engine

// movePlan is the fully validated description of a move. Validation computes
// everything before any mutation begins, so a rejected move has nothing to
// roll back.
type movePlan struct {
	snake  *Snake
	end    SnakeEnd
	target Position // validated entry cell, wrapped for the wrapping color
	final  Position // resting cell of the moved end, after any portal hop
	push   *pushPlan
}

// validateMove runs the validation pipeline: end eligibility, boundary
// handling, adjacency, then cell entry rules. The first failure
// short-circuits with its typed reason.
func (g *Game) validateMove(snake *Snake, req MoveRequest) (movePlan, RejectReason) {
	l := g.level

	end := req.End
	if end == "" {
		end = HeadEnd
	}

	// Only the reversible color may move its tail end.
	if end == TailEnd && snake.Color != l.Rules.ReversibleColor {
		return movePlan{}, RejectIllegalEnd
	}

	from := snake.End(end)
	target := req.Target

	if snake.Color == l.Rules.WrappingColor {
		target = l.Board.Wrap(target)
		if _, ok := ToroidalDirection(from, target, l.Board); !ok {
			return movePlan{}, RejectNotAdjacent
		}
	} else {
		// Out-of-bounds targets pass adjacency and fail the wall check
		// below, which reports out-of-bounds cells as walls.
		if _, ok := UnitDirection(from, target); !ok {
			return movePlan{}, RejectNotAdjacent
		}
	}

	return g.validateEntry(snake, end, from, target, 0)
}

// validateEntry applies the cell entry rules in precedence order: snake
// collision, wall, closed lift gate, pushable object, hole, portal, fruit,
// exit. depth > 0 means the cell is a portal destination, where pushing is
// not available and nested teleports are not followed.
func (g *Game) validateEntry(snake *Snake, end SnakeEnd, from, target Position, depth int) (movePlan, RejectReason) {
	l := g.level

	// Snake collision. A tail move may target the snake's own head cell:
	// the body simply shifts.
	if occ, idx := l.SnakeAt(target); occ != nil {
		if !(end == TailEnd && occ == snake && idx == 0) {
			return movePlan{}, RejectObstructed
		}
	}

	if l.Board.HasKind(target, KindWall) {
		return movePlan{}, RejectObstructed
	}
	if gate := l.Board.FirstKind(target, KindLiftGate); gate != nil && !gate.Open {
		return movePlan{}, RejectObstructed
	}

	if obj := l.ObjectAt(target); obj != nil {
		// Entry onto a pushable is only achieved by the push/slide
		// protocol, head moves only, and never through a portal.
		if depth > 0 || end != HeadEnd {
			return movePlan{}, RejectObstructed
		}
		dir, ok := g.pushDirection(snake, from, target)
		if !ok {
			return movePlan{}, RejectObstructed
		}
		push := g.planDisplacement(obj, dir)
		if push == nil {
			return movePlan{}, RejectObstructed
		}
		// The push vacates the target cell. A hole under the object would
		// be left bare under the snake, and holes are not floor for snakes.
		if l.Board.HasKind(target, KindHole) {
			return movePlan{}, RejectInteractionDenied
		}
		return movePlan{snake: snake, end: end, target: target, final: target, push: push}, ""
	}

	if l.Board.HasKind(target, KindHole) {
		// Holes are terminal destinations for pushables, not floor for
		// snakes.
		return movePlan{}, RejectInteractionDenied
	}

	if depth == 0 {
		if portal := l.Board.FirstKind(target, KindPortal); portal != nil && portal.Link != NoEntity {
			// The portal itself never blocks; its destination might.
			dest := l.Store.Get(portal.Link).Cell()
			plan, reject := g.validateEntry(snake, end, target, dest, depth+1)
			if reject != "" {
				return movePlan{}, reject
			}
			plan.target = target
			return plan, ""
		}

		if fruit := l.Board.FirstKind(target, KindFruit); fruit != nil {
			if end != HeadEnd || !fruit.AllowsColor(snake.Color) {
				return movePlan{}, RejectInteractionDenied
			}
		}
		if exit := l.Board.FirstKind(target, KindExit); exit != nil {
			if end != HeadEnd || exit.Color != snake.Color || snake.Len() < exit.MinLength {
				return movePlan{}, RejectInteractionDenied
			}
		}
	}

	// Laser gates, pressure plates, and open floor are always enterable.
	return movePlan{snake: snake, end: end, target: target, final: target}, ""
}

// pushDirection computes the unit vector from mover to target, toroidally
// for the wrapping color.
func (g *Game) pushDirection(snake *Snake, from, target Position) (Delta, bool) {
	if snake.Color == g.level.Rules.WrappingColor {
		return ToroidalDirection(from, target, g.level.Board)
	}
	return UnitDirection(from, target)
}

// execute commits a validated plan: displaced object first, then the snake
// body, then the entered cell's hooks, then the state refresh.
func (g *Game) execute(plan movePlan) {
	l := g.level
	snake := plan.snake

	// The pushed object relocates before the body update so fruit and hole
	// checks at the snake's destination see final board state.
	if plan.push != nil {
		g.relocateObject(plan.push)
	}

	final := plan.final
	if final == plan.target {
		// Entering a cell that holds an active portal relocates the
		// just-moved end to the linked cell. The resulting gap in body
		// adjacency is intentional: the snake stretches through the
		// portal.
		if portal := l.ActivePortalAt(plan.target); portal != nil {
			dest := l.Store.Get(portal.Link).Cell()
			if l.DestinationClear(dest) && !l.Board.HasKind(dest, KindHole) {
				final = dest
			}
		}
	}

	fruit := l.Board.FirstKind(final, KindFruit)
	ate := plan.end == HeadEnd && fruit != nil && fruit.AllowsColor(snake.Color)

	if plan.end == HeadEnd {
		snake.Body = append([]Position{final}, snake.Body...)
		if !ate {
			snake.Body = snake.Body[:len(snake.Body)-1]
		}
	} else {
		snake.Body = append(snake.Body[1:], final)
	}
	g.emit(SnakeMoved{SnakeID: snake.ID})

	if ate {
		l.Board.Unplace(fruit)
		l.Store.Remove(fruit.ID)
		g.emit(FruitConsumed{Pos: final})
		g.emit(SnakeGrew{SnakeID: snake.ID})
	}

	if exit := l.Board.FirstKind(final, KindExit); exit != nil &&
		plan.end == HeadEnd && exit.Color == snake.Color && snake.Len() >= exit.MinLength {
		g.consumeExit(snake, exit)
	} else if laser := l.Board.FirstKind(final, KindLaserGate); laser != nil && laser.Active {
		g.sliceSnake(snake, final)
	}

	g.refreshState()
}

// consumeExit removes the exiting snake, respawns a fruit colored with the
// union of the remaining snake colors, and latches the win when the last
// snake leaves.
func (g *Game) consumeExit(snake *Snake, exit *Entity) {
	l := g.level

	g.emit(ExitConsumed{Pos: exit.Cell()})
	l.RemoveSnake(snake.ID)
	g.emit(SnakeRemoved{SnakeID: snake.ID})

	if len(l.Snakes) == 0 {
		if !g.won {
			g.won = true
			g.emit(LevelWon{})
		}
		return
	}

	var colors []Color
	seen := make(map[Color]bool)
	for _, s := range l.Snakes {
		if !seen[s.Color] {
			seen[s.Color] = true
			colors = append(colors, s.Color)
		}
	}
	fruit := &Entity{Kind: KindFruit, Cells: []Position{exit.Cell()}, Colors: colors}
	l.Store.Add(fruit)
	l.Board.Place(fruit)
	g.emit(FruitSpawned{Entity: fruit.ID, Pos: exit.Cell(), Colors: colors})
}

// sliceSnake removes the body segment standing on the cell. Slicing keeps
// the head side of the body; slicing the head itself drops just that
// segment. A snake sliced to nothing is removed from play.
func (g *Game) sliceSnake(snake *Snake, at Position) {
	idx := snake.SegmentAt(at)
	if idx < 0 {
		return
	}
	if idx == 0 {
		snake.Body = snake.Body[1:]
	} else {
		snake.Body = snake.Body[:idx]
	}
	g.emit(SnakeSliced{SnakeID: snake.ID, At: at})
	if len(snake.Body) == 0 {
		g.level.RemoveSnake(snake.ID)
		g.emit(SnakeRemoved{SnakeID: snake.ID})
	}
}
