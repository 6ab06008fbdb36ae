// Package websocket provides real-time game updates over WebSocket.
//
// The hub maintains per-session client sets. Inbound frames carry move
// requests, resets, and the presentation-busy advisory; they are dispatched
// through the GameService. After an accepted move the drained event stream
// plus the resulting snapshot broadcast to every client of the session, so
// all connected presentations replay the same animation. Rejections return
// to the requesting client only.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run()
//
//	router.HandleFunc("/ws/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
//		sessionID := mux.Vars(r)["sessionId"]
//		hub.ServeWS(w, r, sessionID)
//	})
//
// The connection handling follows the standard gorilla/websocket hub pattern
// with read/write pumps, ping keepalive, and bounded send buffers; a client
// that cannot keep up is dropped rather than blocking the hub.
package websocket
