package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/snakefall/snakefall/game/engine"
	"github.com/snakefall/snakefall/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Snakefall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Snakefall - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guide every snake to its exit. Snakes move one cell at a time by naming the
target cell for an end of the body. Push boxes, slide ice cubes, eat fruit to
grow, hold pressure plates to open lift gates and disarm lasers, and step
through portals.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details
- snapshot: Get the current board state, rendered as a grid
- move: Move one end of a snake to an adjacent cell
- reset_game: Reload the level
- move_history: View past accepted moves
- list_levels: List available levels

COORDINATES: origin (0,0) is the bottom-left cell, y increases upward.
A rejected move is a normal result, not an error; read the reason.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level to play (optional, defaults to the server default)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "snapshot",
		Description: "Get the current board state rendered as a grid plus the snake roster",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSnapshot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move one end of a snake to an adjacent target cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"snake_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the snake to move",
				},
				"end": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"head", "tail"},
					"description": "Which end moves (tail only for the reversible color)",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Target cell x coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Target cell y coordinate",
				},
			},
			Required: []string{"session_id", "snake_id", "x", "y"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reload the level to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the accepted move log for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules of the game and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s", session.ID, session.LevelName, formatSnapshot(session.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		moves := 0
		if s.Snapshot != nil {
			moves = s.Snapshot.TotalMoves
			if s.Snapshot.Won {
				status = "won"
			}
		}
		fmt.Fprintf(&b, "- %s level=%s moves=%d status=%s\n", s.ID, s.LevelName, moves, status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelName, session.CreatedAt.Format(time.RFC3339), formatSnapshot(session.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var snap engine.Snapshot
	if err := c.apiCall("GET", "/api/sessions/"+sessionID+"/snapshot", nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	snakeID, _ := args["snake_id"].(string)
	end, _ := args["end"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)

	if end == "" {
		end = string(engine.HeadEnd)
	}

	req := engine.MoveRequest{
		SnakeID: snakeID,
		End:     engine.SnakeEnd(end),
		Target:  engine.Position{X: int(x), Y: int(y)},
	}

	var outcome service.MoveOutcome
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/move", req, &outcome); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveOutcome(&outcome)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/reset", map[string]string{}, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatSnapshot(response.Snapshot)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	path := "/api/sessions/" + sessionID + "/history?order=asc"
	if page, ok := args["page"].(float64); ok {
		path += fmt.Sprintf("&page=%d", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		path += fmt.Sprintf("&limit=%d", int(limit))
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Moves %d (page %d/%d):\n", history.TotalMoves, history.Page, history.TotalPages)
	for i, m := range history.Moves {
		fmt.Fprintf(&b, "%d. %s %s -> (%d,%d)\n", (history.Page-1)*history.PageSize+i+1, m.SnakeID, m.End, m.Target.X, m.Target.Y)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []*service.LevelInfo
	if err := c.apiCall("GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available levels: %d\n", len(levels))
	for _, l := range levels {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d snakes)\n", l.LevelID, l.Name, l.Width, l.Height, l.SnakeCount)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `SNAKE PUZZLE RULES

OBJECTIVE
Guide every snake off the board through an exit. The level is won when no
snakes remain.

MOVEMENT
- A move names a snake, an end (head or tail) and a target cell.
- The target must be orthogonally adjacent to that end. Diagonals are
  rejected.
- Only snakes of the reversible color (blue by default) may move by the
  tail. Moving the tail reverses the body orientation.
- Snakes of the wrapping color (purple by default) wrap across board edges;
  everyone else treats the edge as a wall.

PUSHING AND SLIDING
- Boxes are pushed one cell when a snake walks into them; the push fails if
  anything blocks the destination.
- Ice cubes slide until they hit something. A cube sliding over a hole
  falls in and fills it.
- A chain of pushables moves together or not at all.

FRUIT, EXITS, SNAKES
- Eating a fruit whose colors include the snake's color grows the snake by
  one segment.
- An exit consumes a snake whose length is at least the exit's minimum.
- Snakes block each other. A snake may follow its own tail into the cell
  the tail is vacating.

PLATES, GATES, LASERS, PORTALS
- A pressure plate is active while anything rests on it.
- Lift gates of a color open while any plate of that color is active, and
  never close on an occupied cell.
- Laser gates are armed while NO plate of their color is active. An armed
  laser destroys what sits on it and slices snakes at the beam.
- Portals come in linked pairs. Stepping on an active portal teleports you
  to its twin; a blocked twin deactivates the pair.

BOARD LEGEND (snapshot tool)
  .  empty        #  wall         o  hole
  *  fruit        X  exit         B  box
  I  ice cube     _  plate idle   =  plate active
  G  gate closed  /  gate open    L  laser armed   l  laser disarmed
  @  portal live  0  portal dead
  Uppercase letter: snake head (R red, B blue...). Lowercase: body.

COORDINATES
(0,0) is bottom-left, y grows upward. The snapshot prints the top row
first, so the last printed row is y=0.

A rejected move returns a reason and changes nothing. Rejections are
normal play, not errors.`

// Formatting helpers

// formatMoveOutcome renders a move result for the MCP client
func formatMoveOutcome(outcome *service.MoveOutcome) string {
	var b strings.Builder

	if outcome.Accepted {
		fmt.Fprintf(&b, "ACCEPTED: %s\n", outcome.Message)
		for _, ev := range outcome.Events {
			fmt.Fprintf(&b, "  - %s\n", ev.Message)
		}
	} else {
		fmt.Fprintf(&b, "REJECTED (%s): %s\n", outcome.Reason, outcome.Message)
	}

	if outcome.Won {
		b.WriteString("\nLEVEL WON!\n")
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(outcome.Snapshot))
	return b.String()
}

// formatSnapshot renders the board as text, row y=height-1 first so the
// bottom-left origin prints bottom-left.
func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "(no snapshot)"
	}

	grid := make([][]rune, snap.Height)
	for y := range grid {
		grid[y] = make([]rune, snap.Width)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	put := func(p engine.Position, ch rune) {
		if p.Y >= 0 && p.Y < snap.Height && p.X >= 0 && p.X < snap.Width {
			grid[p.Y][p.X] = ch
		}
	}

	for _, e := range snap.Entities {
		ch := entityChar(e)
		for _, cell := range e.Cells {
			put(cell, ch)
		}
	}

	// Snakes draw last so they cover plates and open gates they stand on.
	for _, s := range snap.Snakes {
		initial := 's'
		if s.Color != "" {
			initial = rune(s.Color[0])
		}
		for i, cell := range s.Body {
			if i == 0 {
				put(cell, initial-'a'+'A')
			} else {
				put(cell, initial)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s (%dx%d) moves=%d won=%t\n", snap.Level, snap.Width, snap.Height, snap.TotalMoves, snap.Won)
	for y := snap.Height - 1; y >= 0; y-- {
		b.WriteString(string(grid[y]))
		b.WriteByte('\n')
	}

	snakes := append([]*engine.Snake(nil), snap.Snakes...)
	sort.Slice(snakes, func(i, j int) bool { return snakes[i].ID < snakes[j].ID })
	for _, s := range snakes {
		fmt.Fprintf(&b, "snake %s (%s) length=%d head=(%d,%d)\n", s.ID, s.Color, s.Len(), s.Head().X, s.Head().Y)
	}

	return b.String()
}

// entityChar maps an entity to its board character. Uppercase marks the
// blocking or active form.
func entityChar(e *engine.Entity) rune {
	switch e.Kind {
	case engine.KindWall:
		return '#'
	case engine.KindHole:
		return 'o'
	case engine.KindFruit:
		return '*'
	case engine.KindExit:
		return 'X'
	case engine.KindBox:
		return 'B'
	case engine.KindIceCube:
		return 'I'
	case engine.KindPlate:
		if e.Active {
			return '='
		}
		return '_'
	case engine.KindLiftGate:
		if e.Open {
			return '/'
		}
		return 'G'
	case engine.KindLaserGate:
		if e.Active {
			return 'L'
		}
		return 'l'
	case engine.KindPortal:
		if e.Active {
			return '@'
		}
		return '0'
	default:
		return '?'
	}
}
