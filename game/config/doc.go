// Package config provides level file management for the snake puzzle game.
//
// The config package handles:
//   - Loading level definitions from JSON files
//   - Level validation at load time
//   - Default level selection
//   - Level discovery and listing
//
// Level Format:
//
// Levels are stored as JSON files in the levels directory. Each level names
// its board dimensions, the rule colors (reversible and wrapping), and the
// entity placements: walls, holes, fruits, exits, boxes, ice cubes, pressure
// plates, lift gates, laser gates, portals, and the snakes with their
// head-first bodies.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.LoadConfig("garden")
//
//	// Get the default level
//	defaultLevel := manager.GetDefault()
//
//	// List available levels
//	levels, err := manager.ListConfigs()
//
// All levels pass engine.ValidateLevelConfig before they are cached, so a
// level that loads is a level the engine will accept.
package config
