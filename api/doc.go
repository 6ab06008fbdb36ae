// Package api provides the REST interface to the snake puzzle game.
//
// Endpoints:
//
//	POST   /api/sessions              Create a session (body: {"level_id": "garden"})
//	GET    /api/sessions              List sessions (sort, order, limit query params)
//	GET    /api/sessions/{id}         Session info with snapshot
//	DELETE /api/sessions/{id}         Delete a session
//
//	GET    /api/sessions/{id}/snapshot  Current observable state
//	POST   /api/sessions/{id}/move      Submit a move request
//	POST   /api/sessions/{id}/reset     Reload the level
//	POST   /api/sessions/{id}/busy      Set the presentation-busy advisory
//	GET    /api/sessions/{id}/history   Paginated accepted-move log
//
//	GET    /api/levels                Available levels
//	POST   /api/levels                Save a level definition
//	GET    /api/levels/{name}         Level definition
//
//	GET    /api/health                Liveness check
//	GET    /ws?session={id}           WebSocket upgrade for live updates
//
// A move request body matches engine.MoveRequest:
//
//	{"snake_id": "red-1", "end": "head", "target": {"x": 2, "y": 1}}
//
// The response is a service.MoveOutcome. Rejected moves still return 200:
// rejection is a gameplay result, carried in the accepted flag and reason.
// Accepted moves additionally broadcast their event stream and snapshot to
// the session's WebSocket clients.
package api
