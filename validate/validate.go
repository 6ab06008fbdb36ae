// Command validate checks level JSON files in the levels directory. Beyond
// the engine's structural validation it runs solvability heuristics:
//   - every snake color has at least one exit
//   - every exit minimum length is achievable from body length plus fruit
//   - some exit of each snake's color is reachable from its head, treating
//     walls as the only permanent obstacle
//   - lift and laser gate colors that lack a pressure plate
//   - portal colors with a single endpoint
//
// Usage: validate [levels-dir]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snakefall/snakefall/game/engine"
)

// ValidationResult captures the outcome of validating a single file. When
// Valid, Errors holds informational lines; otherwise the failures found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// validateLevel loads one level file and runs structural validation plus the
// solvability heuristics.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg engine.LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateLevelConfig(&cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	checkExitCoverage(&cfg, &result)
	checkFruitCoverage(&cfg, &result)
	checkGateWiring(&cfg, &result)
	checkPortalPairing(&cfg, &result)
	checkReachability(&cfg, &result)

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Name: %s", cfg.Name),
			fmt.Sprintf("✓ Grid: %dx%d", cfg.Width, cfg.Height),
			fmt.Sprintf("✓ Snakes: %d", len(cfg.Snakes)),
			fmt.Sprintf("✓ Exits: %d", len(cfg.Exits)),
			fmt.Sprintf("✓ Fruits: %d", len(cfg.Fruits)),
		)
	}

	return result
}

// checkExitCoverage verifies every snake has an exit of its color whose
// minimum length is achievable. The best case for a snake is its starting
// length plus every fruit its color may eat.
func checkExitCoverage(cfg *engine.LevelConfig, result *ValidationResult) {
	for _, s := range cfg.Snakes {
		best := len(s.Body)
		for _, f := range cfg.Fruits {
			for _, c := range f.Colors {
				if c == s.Color {
					best++
					break
				}
			}
		}

		found := false
		feasible := false
		for _, e := range cfg.Exits {
			if e.Color != s.Color {
				continue
			}
			found = true
			if e.MinLength <= best {
				feasible = true
			}
		}

		if !found {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Snake %q (%s) has no exit of its color", s.ID, s.Color))
		} else if !feasible {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("Snake %q can reach length at most %d, below every %s exit minimum", s.ID, best, s.Color))
		}
	}
}

// checkFruitCoverage flags fruit colors no snake can ever eat.
func checkFruitCoverage(cfg *engine.LevelConfig, result *ValidationResult) {
	snakeColors := make(map[engine.Color]bool)
	for _, s := range cfg.Snakes {
		snakeColors[s.Color] = true
	}

	for _, f := range cfg.Fruits {
		edible := false
		for _, c := range f.Colors {
			if snakeColors[c] {
				edible = true
				break
			}
		}
		if !edible {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Fruit at (%d,%d) is edible by no snake on the level", f.X, f.Y))
		}
	}
}

// checkGateWiring flags gate colors that have no pressure plate. A lift gate
// without a plate never opens; a laser gate without one never disarms.
func checkGateWiring(cfg *engine.LevelConfig, result *ValidationResult) {
	plateColors := make(map[engine.Color]bool)
	for _, p := range cfg.Plates {
		plateColors[p.Color] = true
	}

	for _, g := range cfg.LiftGates {
		if !plateColors[g.Color] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Lift gate at (%d,%d) has no %s plate and will never open", g.X, g.Y, g.Color))
		}
	}
	for _, g := range cfg.LaserGates {
		if !plateColors[g.Color] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Laser gate at (%d,%d) has no %s plate and will never disarm", g.X, g.Y, g.Color))
		}
	}
}

// checkPortalPairing flags portal colors with a lone endpoint, which the
// engine leaves inert.
func checkPortalPairing(cfg *engine.LevelConfig, result *ValidationResult) {
	count := make(map[engine.Color]int)
	for _, p := range cfg.Portals {
		count[p.Color]++
	}
	for color, n := range count {
		if n == 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Lone %s portal has no twin and will never teleport", color))
		}
	}
}

// checkReachability flood-fills from each snake's head, treating walls as
// the only permanent obstacle, and requires some exit of the snake's color
// to be reachable. Boxes, cubes, gates and other snakes are dynamic, so
// they do not block the fill.
func checkReachability(cfg *engine.LevelConfig, result *ValidationResult) {
	walls := make(map[engine.Position]bool)
	for _, w := range cfg.Walls {
		walls[w] = true
	}

	rules := engine.DefaultRules()
	if cfg.Rules.ReversibleColor != "" || cfg.Rules.WrappingColor != "" {
		rules = cfg.Rules
	}

	for _, s := range cfg.Snakes {
		wraps := s.Color == rules.WrappingColor
		reached := floodFill(s.Body[0], cfg.Width, cfg.Height, walls, wraps)

		ok := false
		for _, e := range cfg.Exits {
			if e.Color == s.Color && reached[e.Position] {
				ok = true
				break
			}
		}
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("Snake %q (%s) cannot reach any exit of its color", s.ID, s.Color))
		}
	}
}

// floodFill returns the set of cells reachable from start over non-wall
// cells via 4-directional movement, toroidal when wraps is set.
func floodFill(start engine.Position, width, height int, walls map[engine.Position]bool, wraps bool) map[engine.Position]bool {
	visited := make(map[engine.Position]bool)
	queue := []engine.Position{start}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if visited[p] {
			continue
		}
		visited[p] = true

		for _, d := range engine.Directions {
			n := p.Add(d)
			if wraps {
				n.X = ((n.X % width) + width) % width
				n.Y = ((n.Y % height) + height) % height
			} else if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if !visited[n] && !walls[n] {
				queue = append(queue, n)
			}
		}
	}

	return visited
}

// main scans the levels directory for *.json files and validates each one,
// printing a report and exiting non-zero if any are invalid.
func main() {
	levelsDir := "levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelsDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠️  " + warning)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
