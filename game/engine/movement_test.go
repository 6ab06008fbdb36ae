package engine

import (
	"testing"
)

func TestAdjacencyRule(t *testing.T) {
	tests := []struct {
		name   string
		target Position
		want   RejectReason // empty means accepted
	}{
		{"step right", Position{3, 2}, ""},
		{"step left", Position{1, 2}, ""},
		{"step up", Position{2, 3}, ""},
		{"step down", Position{2, 1}, ""},
		{"two cells away", Position{4, 2}, RejectNotAdjacent},
		{"diagonal", Position{3, 3}, RejectNotAdjacent},
		{"own cell", Position{2, 2}, RejectNotAdjacent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := mustGame(t, baseConfig(6, 6, redSnake(Position{2, 2})))
			req := headMove("red-1", test.target)
			if test.want == "" {
				mustAccept(t, g, req)
				if got := g.Level().Snake("red-1").Head(); got != test.target {
					t.Errorf("head = %v, want %v", got, test.target)
				}
			} else {
				mustReject(t, g, req, test.want)
			}
		})
	}
}

func TestMoveOffBoardIsObstructed(t *testing.T) {
	// Out-of-bounds cells report as walls, so the rejection is Obstructed,
	// not NotAdjacent.
	g := mustGame(t, baseConfig(4, 4, redSnake(Position{0, 0})))
	mustReject(t, g, headMove("red-1", Position{-1, 0}), RejectObstructed)
	mustReject(t, g, headMove("red-1", Position{0, -1}), RejectObstructed)
}

func TestTailMoveEligibility(t *testing.T) {
	t.Run("non-reversible color rejected", func(t *testing.T) {
		g := mustGame(t, baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3})))
		mustReject(t, g, MoveRequest{SnakeID: "red-1", End: TailEnd, Target: Position{2, 4}}, RejectIllegalEnd)
	})

	t.Run("reversible color accepted", func(t *testing.T) {
		g := mustGame(t, baseConfig(6, 6, blueSnake(Position{2, 2}, Position{2, 3})))
		mustAccept(t, g, MoveRequest{SnakeID: "blue-1", End: TailEnd, Target: Position{2, 4}})

		s := g.Level().Snake("blue-1")
		if s.Head() != (Position{2, 3}) || s.Tail() != (Position{2, 4}) {
			t.Errorf("body = %v, want head (2,3) tail (2,4)", s.Body)
		}
	})

	t.Run("tail may target own head cell", func(t *testing.T) {
		g := mustGame(t, baseConfig(6, 6, blueSnake(Position{2, 2}, Position{2, 3})))
		mustAccept(t, g, MoveRequest{SnakeID: "blue-1", End: TailEnd, Target: Position{2, 2}})

		s := g.Level().Snake("blue-1")
		if s.Head() != (Position{2, 3}) || s.Tail() != (Position{2, 2}) {
			t.Errorf("body = %v, want reversed", s.Body)
		}
	})
}

func TestWrappingColorCrossesBoundary(t *testing.T) {
	g := mustGame(t, baseConfig(4, 4, purpleSnake(Position{0, 1})))
	mustAccept(t, g, headMove("purple-1", Position{-1, 1}))

	if got := g.Level().Snake("purple-1").Head(); got != (Position{3, 1}) {
		t.Errorf("head = %v, want wrapped (3,1)", got)
	}
}

func TestWrappingColorAdjacencyStillUnitStep(t *testing.T) {
	g := mustGame(t, baseConfig(4, 4, purpleSnake(Position{0, 1})))
	mustReject(t, g, headMove("purple-1", Position{2, 1}), RejectNotAdjacent)
}

func TestSnakeCollision(t *testing.T) {
	t.Run("own body blocks head move", func(t *testing.T) {
		g := mustGame(t, baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3})))
		mustReject(t, g, headMove("red-1", Position{2, 3}), RejectObstructed)
	})

	t.Run("other snake blocks", func(t *testing.T) {
		cfg := baseConfig(6, 6,
			redSnake(Position{2, 2}),
			SnakeConfig{ID: "green-1", Color: ColorGreen, Body: []Position{{3, 2}}},
		)
		g := mustGame(t, cfg)
		mustReject(t, g, headMove("red-1", Position{3, 2}), RejectObstructed)
	})
}

func TestNoOverlapAfterMoves(t *testing.T) {
	cfg := baseConfig(6, 6,
		redSnake(Position{1, 1}, Position{1, 2}),
		SnakeConfig{ID: "green-1", Color: ColorGreen, Body: []Position{{4, 4}, {4, 3}}},
	)
	cfg.Walls = []Position{{3, 3}}

	g := mustGame(t, cfg)
	moves := []MoveRequest{
		headMove("red-1", Position{2, 1}),
		headMove("green-1", Position{4, 5}),
		headMove("red-1", Position{3, 1}),
		headMove("green-1", Position{3, 5}),
	}
	for _, req := range moves {
		mustAccept(t, g, req)
		seen := make(map[Position]string)
		for _, s := range g.Level().Snakes {
			for _, c := range s.Body {
				if other, dup := seen[c]; dup {
					t.Fatalf("snakes %s and %s overlap at %v", other, s.ID, c)
				}
				seen[c] = s.ID
				if g.Level().Board.HasKind(c, KindWall) {
					t.Fatalf("snake %s overlaps wall at %v", s.ID, c)
				}
			}
		}
	}
}

func TestWallAndGateObstruction(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}))
	cfg.Walls = []Position{{3, 2}}
	cfg.LiftGates = []ColoredCell{{Position: Position{2, 3}, Color: ColorYellow}}

	g := mustGame(t, cfg)
	mustReject(t, g, headMove("red-1", Position{3, 2}), RejectObstructed)
	// No yellow plates, so the gate is closed.
	mustReject(t, g, headMove("red-1", Position{2, 3}), RejectObstructed)
}

func TestOpenGateIsFloor(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}))
	cfg.Plates = []ColoredCell{{Position: Position{5, 5}, Color: ColorYellow}}
	cfg.LiftGates = []ColoredCell{{Position: Position{2, 3}, Color: ColorYellow}}
	cfg.Boxes = []FootprintConfig{{Cells: []Position{{5, 5}}}} // holds the plate down

	g := mustGame(t, cfg)
	mustAccept(t, g, headMove("red-1", Position{2, 3}))
}

func TestHoleRejectsSnakes(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}))
	cfg.Holes = []Position{{3, 2}}

	g := mustGame(t, cfg)
	mustReject(t, g, headMove("red-1", Position{3, 2}), RejectInteractionDenied)
}

func TestFruitConsumption(t *testing.T) {
	cfg := baseConfig(8, 8, redSnake(Position{4, 5}, Position{3, 5}))
	cfg.Fruits = []FruitConfig{{Position: Position{5, 5}, Colors: []Color{ColorRed}}}

	g := mustGame(t, cfg)
	result := mustAccept(t, g, headMove("red-1", Position{5, 5}))

	if !hasEvent(result.Events, EventFruitConsumed) || !hasEvent(result.Events, EventSnakeGrew) {
		t.Errorf("events = %v, want FruitConsumed and SnakeGrew", eventTypes(result.Events))
	}
	s := g.Level().Snake("red-1")
	if s.Len() != 3 {
		t.Errorf("body length = %d, want 3 after growing", s.Len())
	}
	if s.Head() != (Position{5, 5}) || s.Tail() != (Position{3, 5}) {
		t.Errorf("body = %v, want head (5,5) and kept tail (3,5)", s.Body)
	}
	if g.Level().Board.HasKind(Position{5, 5}, KindFruit) {
		t.Error("fruit still on board after consumption")
	}
}

func TestFruitColorRules(t *testing.T) {
	t.Run("wrong color denied", func(t *testing.T) {
		cfg := baseConfig(6, 6, redSnake(Position{2, 2}))
		cfg.Fruits = []FruitConfig{{Position: Position{3, 2}, Colors: []Color{ColorGreen}}}
		g := mustGame(t, cfg)
		mustReject(t, g, headMove("red-1", Position{3, 2}), RejectInteractionDenied)
	})

	t.Run("tail into fruit denied", func(t *testing.T) {
		cfg := baseConfig(6, 6, blueSnake(Position{2, 2}, Position{2, 3}))
		cfg.Fruits = []FruitConfig{{Position: Position{2, 4}, Colors: []Color{ColorBlue}}}
		g := mustGame(t, cfg)
		mustReject(t, g, MoveRequest{SnakeID: "blue-1", End: TailEnd, Target: Position{2, 4}}, RejectInteractionDenied)
	})
}

func TestExitRules(t *testing.T) {
	t.Run("too short denied", func(t *testing.T) {
		cfg := baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3}))
		cfg.Exits = []ExitConfig{{Position: Position{3, 2}, Color: ColorRed, MinLength: 3}}
		g := mustGame(t, cfg)
		mustReject(t, g, headMove("red-1", Position{3, 2}), RejectInteractionDenied)
	})

	t.Run("wrong color denied", func(t *testing.T) {
		cfg := baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3}, Position{2, 4}))
		cfg.Exits = []ExitConfig{{Position: Position{3, 2}, Color: ColorGreen, MinLength: 3}}
		g := mustGame(t, cfg)
		mustReject(t, g, headMove("red-1", Position{3, 2}), RejectInteractionDenied)
	})
}

func TestLastSnakeExitWinsOnce(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3}, Position{2, 4}))
	cfg.Exits = []ExitConfig{{Position: Position{3, 2}, Color: ColorRed, MinLength: 3}}

	g := mustGame(t, cfg)
	result := mustAccept(t, g, headMove("red-1", Position{3, 2}))

	for _, want := range []EventType{EventExitConsumed, EventSnakeRemoved, EventLevelWon} {
		if !hasEvent(result.Events, want) {
			t.Errorf("events = %v, missing %v", eventTypes(result.Events), want)
		}
	}
	if !g.Won() {
		t.Error("Won() = false after last snake exited")
	}
	if len(g.Level().Snakes) != 0 {
		t.Error("snake still in play after exit")
	}

	won := 0
	for _, e := range result.Events {
		if e.Type() == EventLevelWon {
			won++
		}
	}
	if won != 1 {
		t.Errorf("LevelWon fired %d times, want exactly 1", won)
	}
}

func TestExitSpawnsFruitForRemainingSnakes(t *testing.T) {
	cfg := baseConfig(8, 8,
		redSnake(Position{2, 2}, Position{2, 3}),
		SnakeConfig{ID: "green-1", Color: ColorGreen, Body: []Position{{6, 6}}},
	)
	cfg.Exits = []ExitConfig{{Position: Position{3, 2}, Color: ColorRed, MinLength: 2}}

	g := mustGame(t, cfg)
	result := mustAccept(t, g, headMove("red-1", Position{3, 2}))

	if hasEvent(result.Events, EventLevelWon) {
		t.Error("LevelWon fired with a snake still in play")
	}
	if !hasEvent(result.Events, EventFruitSpawned) {
		t.Fatalf("events = %v, want FruitSpawned", eventTypes(result.Events))
	}
	fruit := g.Level().Board.FirstKind(Position{3, 2}, KindFruit)
	if fruit == nil {
		t.Fatal("no respawned fruit at exit cell")
	}
	if len(fruit.Colors) != 1 || fruit.Colors[0] != ColorGreen {
		t.Errorf("respawned fruit colors = %v, want [green]", fruit.Colors)
	}
}

func TestLaserSlicesEntrant(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}, Position{2, 3}, Position{2, 4}))
	cfg.LaserGates = []ColoredCell{{Position: Position{3, 2}, Color: ColorYellow}}

	g := mustGame(t, cfg)
	result := mustAccept(t, g, headMove("red-1", Position{3, 2}))

	if !hasEvent(result.Events, EventSnakeSliced) {
		t.Fatalf("events = %v, want SnakeSliced", eventTypes(result.Events))
	}
	s := g.Level().Snake("red-1")
	if s == nil {
		t.Fatal("snake removed entirely, want sliced")
	}
	if s.Len() != 2 {
		t.Errorf("body length = %d, want 2 after head segment sliced", s.Len())
	}
	if s.Occupies(Position{3, 2}) {
		t.Error("sliced snake still occupies the laser cell")
	}
}

func TestLaserRemovesSingleSegmentSnake(t *testing.T) {
	cfg := baseConfig(6, 6, redSnake(Position{2, 2}))
	cfg.LaserGates = []ColoredCell{{Position: Position{3, 2}, Color: ColorYellow}}

	g := mustGame(t, cfg)
	result := mustAccept(t, g, headMove("red-1", Position{3, 2}))

	if !hasEvent(result.Events, EventSnakeRemoved) {
		t.Errorf("events = %v, want SnakeRemoved", eventTypes(result.Events))
	}
	if g.Level().Snake("red-1") != nil {
		t.Error("snake still in play after being sliced to nothing")
	}
}

func TestPortalTeleportsSnakeEnd(t *testing.T) {
	cfg := baseConfig(10, 10, redSnake(Position{1, 2}, Position{0, 2}))
	cfg.Portals = []ColoredCell{
		{Position: Position{2, 2}, Color: ColorGreen},
		{Position: Position{8, 8}, Color: ColorGreen},
	}

	g := mustGame(t, cfg)
	mustAccept(t, g, headMove("red-1", Position{2, 2}))

	s := g.Level().Snake("red-1")
	if s.Head() != (Position{8, 8}) {
		t.Errorf("head = %v, want teleported (8,8)", s.Head())
	}
	// The body gap is intentional: the snake stretches through the portal.
	if s.Body[1] != (Position{1, 2}) {
		t.Errorf("second segment = %v, want (1,2)", s.Body[1])
	}
}

func TestInactivePortalRejectsEntry(t *testing.T) {
	cfg := baseConfig(10, 10, redSnake(Position{1, 2}))
	cfg.Portals = []ColoredCell{
		{Position: Position{2, 2}, Color: ColorGreen},
		{Position: Position{8, 8}, Color: ColorGreen},
	}
	cfg.Boxes = []FootprintConfig{{Cells: []Position{{8, 8}}}} // obstructs the destination

	g := mustGame(t, cfg)
	mustReject(t, g, headMove("red-1", Position{2, 2}), RejectObstructed)
}

func TestUnpairedPortalIsInert(t *testing.T) {
	cfg := baseConfig(10, 10, redSnake(Position{1, 2}))
	cfg.Portals = []ColoredCell{{Position: Position{2, 2}, Color: ColorGreen}}

	g := mustGame(t, cfg)
	mustAccept(t, g, headMove("red-1", Position{2, 2}))

	if got := g.Level().Snake("red-1").Head(); got != (Position{2, 2}) {
		t.Errorf("head = %v, want (2,2): unpaired portals never teleport", got)
	}
}
