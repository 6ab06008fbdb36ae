// Package service provides the business logic facade for the snake puzzle
// simulation.
//
// The service package defines:
//   - GameService interface with all game operations
//   - Session and level manager contracts implemented by game/session and
//     game/config
//   - Transport-friendly result types (SessionInfo, MoveOutcome, GameEvent)
//
// All transports (REST, WebSocket, MCP) call through GameService so session
// lookup, move dispatch, event rendering, and persistence hooks live in one
// place.
//
// Usage:
//
//	svc := service.NewGameService(sessionManager, levelManager)
//
//	info, err := svc.CreateSession(ctx, "garden")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := svc.Move(ctx, info.ID, engine.MoveRequest{
//		SnakeID: "red-1",
//		End:     engine.HeadEnd,
//		Target:  engine.Position{X: 2, Y: 1},
//	})
//
// Move rejections are part of MoveOutcome, not errors: check Accepted and
// Reason. Errors are reserved for unknown sessions, unknown snakes, and
// infrastructure failures.
package service
