// Package engine provides the core puzzle simulation for Snakefall.
//
// The engine package implements the board model, the entity rule set, and the
// move-resolution algorithm:
//   - Grid board with stacked entity cells and fail-closed bounds handling
//   - Snake movement with head/tail moves, wrapping and reversible colors
//   - Box pushing and ice-cube sliding, including portal traversal
//   - Pressure plates driving lift gates and laser gates per color group
//   - Derived portal activity, hole consumption, and laser hazards
//
// Core Types:
//
// Game is the session orchestrator: it owns a Level (board, entity store,
// snakes, link registry), validates and executes MoveRequests, and buffers
// the domain Events that presentation collaborators replay as animation.
// LevelConfig is the typed record set a level loader hands to NewGame.
//
// Usage:
//
//	game, err := engine.NewGame(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := game.RequestMove(engine.MoveRequest{
//		SnakeID: "red-1",
//		End:     engine.HeadEnd,
//		Target:  engine.Position{X: 3, Y: 2},
//	})
//
// Game Rules:
//
// Each move relocates one snake end by one cell. Walls and closed lift gates
// block; boxes are pushed one cell, ice cubes slide until obstructed; portals
// teleport whatever enters them while their destination is clear; fruit grows
// a matching snake; a snake exits the level through a matching exit once long
// enough. The level is won when the last snake has exited.
//
// The simulation is single-threaded and turn-based: a move is fully validated
// before any mutation, so a rejected move has no effect and there is nothing
// to roll back.
package engine
