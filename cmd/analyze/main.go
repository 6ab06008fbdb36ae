// Command analyze prints quick, human-readable heuristics about level files
// in the levels directory. It summarizes dimensions, entity counts, and the
// per-snake picture: achievable length versus exit minimums and the
// Manhattan distance from head to the nearest matching exit.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snakefall/snakefall/game/engine"
)

func main() {
	levelsDir := "levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelsDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeLevel(file)
	}
}

func analyzeLevel(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var cfg engine.LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", cfg.Name)
	fmt.Printf("Grid: %d x %d\n", cfg.Width, cfg.Height)
	fmt.Printf("Walls: %d  Holes: %d  Boxes: %d  Ice cubes: %d\n",
		len(cfg.Walls), len(cfg.Holes), len(cfg.Boxes), len(cfg.IceCubes))
	fmt.Printf("Fruits: %d  Exits: %d  Plates: %d  Lift gates: %d  Laser gates: %d  Portals: %d\n",
		len(cfg.Fruits), len(cfg.Exits), len(cfg.Plates), len(cfg.LiftGates), len(cfg.LaserGates), len(cfg.Portals))

	analyzeSnakes(&cfg)
	analyzePortals(&cfg)
	analyzeGates(&cfg)
}

// analyzeSnakes prints each snake's growth ceiling against its exits and the
// straight-line distance to the nearest one.
func analyzeSnakes(cfg *engine.LevelConfig) {
	for _, s := range cfg.Snakes {
		edible := 0
		for _, f := range cfg.Fruits {
			for _, c := range f.Colors {
				if c == s.Color {
					edible++
					break
				}
			}
		}
		best := len(s.Body) + edible

		fmt.Printf("Snake %s (%s): length %d, edible fruits %d, max length %d\n",
			s.ID, s.Color, len(s.Body), edible, best)

		nearest := -1
		feasible := false
		for _, e := range cfg.Exits {
			if e.Color != s.Color {
				continue
			}
			dist := engine.ManhattanDistance(s.Body[0], e.Position)
			if nearest < 0 || dist < nearest {
				nearest = dist
			}
			if e.MinLength <= best {
				feasible = true
			}
		}

		switch {
		case nearest < 0:
			fmt.Printf("⚠️  WARNING: no %s exit on the level\n", s.Color)
		case !feasible:
			fmt.Printf("⚠️  WARNING: every %s exit requires more than %d segments\n", s.Color, best)
		default:
			fmt.Printf("   Nearest %s exit: %d cells away\n", s.Color, nearest)
		}
	}
}

// analyzePortals reports pairing per color.
func analyzePortals(cfg *engine.LevelConfig) {
	count := make(map[engine.Color]int)
	for _, p := range cfg.Portals {
		count[p.Color]++
	}
	for color, n := range count {
		if n != 2 {
			fmt.Printf("⚠️  WARNING: %d %s portal endpoint(s), pairs need exactly 2\n", n, color)
		}
	}
}

// analyzeGates reports gate colors without a plate to drive them.
func analyzeGates(cfg *engine.LevelConfig) {
	plates := make(map[engine.Color]int)
	for _, p := range cfg.Plates {
		plates[p.Color]++
	}

	for _, g := range cfg.LiftGates {
		if plates[g.Color] == 0 {
			fmt.Printf("⚠️  WARNING: lift gate at (%d,%d) has no %s plate\n", g.X, g.Y, g.Color)
		}
	}
	for _, g := range cfg.LaserGates {
		if plates[g.Color] == 0 {
			fmt.Printf("⚠️  WARNING: laser gate at (%d,%d) has no %s plate\n", g.X, g.Y, g.Color)
		}
	}
}
