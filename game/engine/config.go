package engine

import (
	"fmt"
)

// LevelConfig is the typed record set a level loader hands the engine. The
// engine does not parse or own the on-disk format; game/config does.
type LevelConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Rules       Rules  `json:"rules"`

	Walls      []Position        `json:"walls,omitempty"`
	Holes      []Position        `json:"holes,omitempty"`
	Fruits     []FruitConfig     `json:"fruits,omitempty"`
	Exits      []ExitConfig      `json:"exits,omitempty"`
	Boxes      []FootprintConfig `json:"boxes,omitempty"`
	IceCubes   []FootprintConfig `json:"ice_cubes,omitempty"`
	Plates     []ColoredCell     `json:"plates,omitempty"`
	LiftGates  []ColoredCell     `json:"lift_gates,omitempty"`
	LaserGates []ColoredCell     `json:"laser_gates,omitempty"`
	Portals    []ColoredCell     `json:"portals,omitempty"`
	Snakes     []SnakeConfig     `json:"snakes"`
}

// FruitConfig places a fruit consumable by the listed snake colors.
type FruitConfig struct {
	Position
	Colors []Color `json:"colors"`
}

// ExitConfig places an exit for one snake color with a minimum body length.
type ExitConfig struct {
	Position
	Color     Color `json:"color"`
	MinLength int   `json:"min_length"`
}

// FootprintConfig places a box or ice cube; shapes larger than 1×1 list
// every occupied cell.
type FootprintConfig struct {
	Cells []Position `json:"cells"`
}

// ColoredCell places a single-cell entity belonging to a color group.
type ColoredCell struct {
	Position
	Color Color `json:"color"`
}

// SnakeConfig places a snake; the body is ordered head first.
type SnakeConfig struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Body  []Position `json:"body"`
}

// effectiveRules resolves the level's color privileges, falling back to the
// defaults when the config names none.
func (cfg *LevelConfig) effectiveRules() Rules {
	if cfg.Rules.ReversibleColor == "" && cfg.Rules.WrappingColor == "" {
		return DefaultRules()
	}
	return cfg.Rules
}

// ValidateLevelConfig checks the construction-time invariants. Broken level
// data fails loudly here, at load, so move-time code never has to defend
// against zero-length bodies or dangling links.
func ValidateLevelConfig(cfg *LevelConfig) error {
	if cfg == nil {
		return fmt.Errorf("level validation: config is nil")
	}
	if cfg.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if cfg.Width < MinBoardSize || cfg.Width > MaxBoardSize {
		return fmt.Errorf("level validation: width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, cfg.Width)
	}
	if cfg.Height < MinBoardSize || cfg.Height > MaxBoardSize {
		return fmt.Errorf("level validation: height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, cfg.Height)
	}

	inBounds := func(p Position) bool {
		return p.X >= 0 && p.X < cfg.Width && p.Y >= 0 && p.Y < cfg.Height
	}

	checkCells := func(what string, cells []Position) error {
		for _, p := range cells {
			if !inBounds(p) {
				return fmt.Errorf("level validation: %s at (%d,%d) is out of bounds", what, p.X, p.Y)
			}
		}
		return nil
	}

	if err := checkCells("wall", cfg.Walls); err != nil {
		return err
	}
	if err := checkCells("hole", cfg.Holes); err != nil {
		return err
	}
	for _, f := range cfg.Fruits {
		if !inBounds(f.Position) {
			return fmt.Errorf("level validation: fruit at (%d,%d) is out of bounds", f.X, f.Y)
		}
		if len(f.Colors) == 0 {
			return fmt.Errorf("level validation: fruit at (%d,%d) allows no colors", f.X, f.Y)
		}
	}
	for _, e := range cfg.Exits {
		if !inBounds(e.Position) {
			return fmt.Errorf("level validation: exit at (%d,%d) is out of bounds", e.X, e.Y)
		}
		if e.Color == "" {
			return fmt.Errorf("level validation: exit at (%d,%d) has no color", e.X, e.Y)
		}
		if e.MinLength < 1 {
			return fmt.Errorf("level validation: exit at (%d,%d) has min_length %d, want >= 1", e.X, e.Y, e.MinLength)
		}
	}
	for i, b := range cfg.Boxes {
		if len(b.Cells) == 0 {
			return fmt.Errorf("level validation: box %d has an empty footprint", i)
		}
		if err := checkCells("box", b.Cells); err != nil {
			return err
		}
	}
	for i, c := range cfg.IceCubes {
		if len(c.Cells) == 0 {
			return fmt.Errorf("level validation: ice cube %d has an empty footprint", i)
		}
		if err := checkCells("ice cube", c.Cells); err != nil {
			return err
		}
	}
	for _, groups := range []struct {
		what  string
		cells []ColoredCell
	}{
		{"pressure plate", cfg.Plates},
		{"lift gate", cfg.LiftGates},
		{"laser gate", cfg.LaserGates},
		{"portal", cfg.Portals},
	} {
		for _, c := range groups.cells {
			if !inBounds(c.Position) {
				return fmt.Errorf("level validation: %s at (%d,%d) is out of bounds", groups.what, c.X, c.Y)
			}
			if c.Color == "" {
				return fmt.Errorf("level validation: %s at (%d,%d) has no color", groups.what, c.X, c.Y)
			}
		}
	}

	portalCount := make(map[Color]int)
	for _, p := range cfg.Portals {
		portalCount[p.Color]++
	}
	for color, n := range portalCount {
		if n > 2 {
			return fmt.Errorf("level validation: %d %s portals, a color pairs at most two endpoints", n, color)
		}
	}

	if len(cfg.Snakes) == 0 {
		return fmt.Errorf("level validation: at least one snake is required")
	}
	seenIDs := make(map[string]bool)
	for _, s := range cfg.Snakes {
		if s.ID == "" {
			return fmt.Errorf("level validation: snake with empty ID")
		}
		if seenIDs[s.ID] {
			return fmt.Errorf("level validation: duplicate snake ID %q", s.ID)
		}
		seenIDs[s.ID] = true
		if s.Color == "" {
			return fmt.Errorf("level validation: snake %q has no color", s.ID)
		}
		if len(s.Body) == 0 {
			return fmt.Errorf("level validation: snake %q has an empty body", s.ID)
		}
		seenCells := make(map[Position]bool)
		for i, p := range s.Body {
			if !inBounds(p) {
				return fmt.Errorf("level validation: snake %q segment %d at (%d,%d) is out of bounds", s.ID, i, p.X, p.Y)
			}
			if seenCells[p] {
				return fmt.Errorf("level validation: snake %q occupies (%d,%d) twice", s.ID, p.X, p.Y)
			}
			seenCells[p] = true
			if i > 0 && !adjacentOnBoard(s.Body[i-1], p, cfg.Width, cfg.Height, s.Color == cfg.effectiveRules().WrappingColor) {
				return fmt.Errorf("level validation: snake %q body breaks at segment %d", s.ID, i)
			}
		}
	}

	return nil
}

// adjacentOnBoard reports unit adjacency, toroidal for the wrapping color.
func adjacentOnBoard(a, b Position, width, height int, wraps bool) bool {
	if ManhattanDistance(a, b) == 1 {
		return true
	}
	if !wraps {
		return false
	}
	for _, d := range Directions {
		n := a.Add(d)
		n.X = ((n.X % width) + width) % width
		n.Y = ((n.Y % height) + height) % height
		if n == b {
			return true
		}
	}
	return false
}

// NewLevel builds the live level from a validated config: the entity arena,
// the board index, the snake collection, and the link registry.
func NewLevel(cfg *LevelConfig) (*Level, error) {
	if err := ValidateLevelConfig(cfg); err != nil {
		return nil, err
	}

	rules := cfg.effectiveRules()

	store := NewStore()
	board := NewBoard(cfg.Width, cfg.Height, store)

	place := func(e *Entity) {
		store.Add(e)
		board.Place(e)
	}

	for _, p := range cfg.Walls {
		place(&Entity{Kind: KindWall, Cells: []Position{p}})
	}
	for _, p := range cfg.Holes {
		place(&Entity{Kind: KindHole, Cells: []Position{p}})
	}
	for _, f := range cfg.Fruits {
		place(&Entity{Kind: KindFruit, Cells: []Position{f.Position}, Colors: append([]Color(nil), f.Colors...)})
	}
	for _, e := range cfg.Exits {
		place(&Entity{Kind: KindExit, Cells: []Position{e.Position}, Color: e.Color, MinLength: e.MinLength})
	}
	for _, b := range cfg.Boxes {
		place(&Entity{Kind: KindBox, Cells: append([]Position(nil), b.Cells...)})
	}
	for _, c := range cfg.IceCubes {
		place(&Entity{Kind: KindIceCube, Cells: append([]Position(nil), c.Cells...)})
	}
	for _, c := range cfg.Plates {
		place(&Entity{Kind: KindPlate, Cells: []Position{c.Position}, Color: c.Color})
	}
	for _, c := range cfg.LiftGates {
		place(&Entity{Kind: KindLiftGate, Cells: []Position{c.Position}, Color: c.Color})
	}
	for _, c := range cfg.LaserGates {
		place(&Entity{Kind: KindLaserGate, Cells: []Position{c.Position}, Color: c.Color})
	}
	for _, c := range cfg.Portals {
		place(&Entity{Kind: KindPortal, Cells: []Position{c.Position}, Color: c.Color, Link: NoEntity})
	}

	level := &Level{
		Board: board,
		Store: store,
		Rules: rules,
	}
	for _, s := range cfg.Snakes {
		level.Snakes = append(level.Snakes, &Snake{
			ID:    s.ID,
			Color: s.Color,
			Body:  append([]Position(nil), s.Body...),
		})
	}
	level.Links = BuildLinks(store)

	return level, nil
}
