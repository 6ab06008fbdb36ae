package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/snakefall/snakefall/game/engine"
	"github.com/snakefall/snakefall/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is an outbound WebSocket frame
type Message struct {
	SessionID string              `json:"session_id"`
	Event     string              `json:"event"`
	Snapshot  *engine.Snapshot    `json:"snapshot,omitempty"`
	Events    []service.GameEvent `json:"events,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// ClientMessage is an inbound WebSocket frame: a move request, a reset, or
// the presentation-busy advisory
type ClientMessage struct {
	Action string              `json:"action"` // "move", "reset", "busy"
	Move   *engine.MoveRequest `json:"move,omitempty"`
	Busy   bool                `json:"busy,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients per session and broadcasts
// snapshots and event streams to them
type Hub struct {
	svc service.GameService

	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages to fan out
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		svc:        svc,
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastSnapshot sends the current snapshot to all clients in a session
func (h *Hub) BroadcastSnapshot(sessionID string, snap *engine.Snapshot) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     "snapshot",
		Snapshot:  snap,
	}
}

// BroadcastMoveOutcome sends an accepted move's event stream plus the
// resulting snapshot to all clients in a session
func (h *Hub) BroadcastMoveOutcome(sessionID string, outcome *service.MoveOutcome) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     "move_result",
		Snapshot:  outcome.Snapshot,
		Events:    outcome.Events,
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.WithFields(log.Fields{
		"session_id": client.sessionID,
		"clients":    len(h.sessions[client.sessionID]),
	}).Debug("websocket client registered")
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.WithFields(log.Fields{
		"session_id": client.sessionID,
		"clients":    len(clients),
	}).Debug("websocket client unregistered")
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("failed to marshal websocket message")
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, drop it
				h.unregisterClient(client)
			}
		}
	}
}

// readPump pumps inbound frames from the WebSocket connection into the game
// service and broadcasts the results
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket read error")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("invalid message: " + err.Error())
			continue
		}

		c.handleMessage(&msg)
	}
}

// handleMessage dispatches one inbound frame
func (c *Client) handleMessage(msg *ClientMessage) {
	ctx := context.Background()

	switch msg.Action {
	case "move":
		if msg.Move == nil {
			c.sendError("move action requires a move payload")
			return
		}
		outcome, err := c.hub.svc.Move(ctx, c.sessionID, *msg.Move)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if !outcome.Accepted {
			// Rejections go back to the requester only; nothing changed for
			// the other clients.
			c.sendMessage(&Message{
				SessionID: c.sessionID,
				Event:     "move_rejected",
				Error:     string(outcome.Reason),
			})
			return
		}
		c.hub.BroadcastMoveOutcome(c.sessionID, outcome)

	case "reset":
		snap, err := c.hub.svc.Reset(ctx, c.sessionID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.BroadcastSnapshot(c.sessionID, snap)

	case "busy":
		if err := c.hub.svc.SetPresentationBusy(ctx, c.sessionID, msg.Busy); err != nil {
			c.sendError(err.Error())
		}

	default:
		c.sendError("unknown action: " + msg.Action)
	}
}

// sendMessage queues a frame for this client only
func (c *Client) sendMessage(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("failed to marshal websocket message")
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendError queues an error frame for this client only
func (c *Client) sendError(text string) {
	c.sendMessage(&Message{
		SessionID: c.sessionID,
		Event:     "error",
		Error:     text,
	})
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
