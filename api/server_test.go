package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snakefall/snakefall/game/engine"
	"github.com/snakefall/snakefall/game/service"
	"github.com/snakefall/snakefall/game/session"
)

type stubLevelManager struct {
	levels map[string]*engine.LevelConfig
	saved  map[string]*engine.LevelConfig
}

func (s *stubLevelManager) LoadConfig(name string) (*engine.LevelConfig, error) {
	cfg, exists := s.levels[name]
	if !exists {
		return nil, errors.New("level not found")
	}
	return cfg, nil
}

func (s *stubLevelManager) ListConfigs() ([]*service.LevelInfo, error) {
	var out []*service.LevelInfo
	for id, cfg := range s.levels {
		out = append(out, &service.LevelInfo{
			Filename: id + ".json",
			LevelID:  id,
			Name:     cfg.Name,
			Width:    cfg.Width,
			Height:   cfg.Height,
		})
	}
	return out, nil
}

func (s *stubLevelManager) GetDefault() *engine.LevelConfig { return s.levels["garden"] }

func (s *stubLevelManager) SaveConfig(name string, cfg *engine.LevelConfig) error {
	if s.saved == nil {
		s.saved = make(map[string]*engine.LevelConfig)
	}
	s.saved[name] = cfg
	s.levels[name] = cfg
	return nil
}

func testLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:   "Test Garden",
		Width:  8,
		Height: 8,
		Snakes: []engine.SnakeConfig{
			{ID: "red-1", Color: engine.ColorRed, Body: []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
	}
}

func newTestServer() *Server {
	levels := &stubLevelManager{levels: map[string]*engine.LevelConfig{"garden": testLevel()}}
	svc := service.NewGameService(session.NewManager(), levels)
	return NewServer(svc, nil)
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doRequest(t, srv, "POST", "/api/sessions", map[string]string{"level_id": "garden"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", rec.Code, rec.Body.String())
	}
	info := decode[service.SessionInfo](t, rec)
	return info.ID
}

func TestCreateSessionEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "POST", "/api/sessions", map[string]string{"level_id": "garden"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	info := decode[service.SessionInfo](t, rec)
	if info.ID == "" || info.LevelName != "garden" {
		t.Errorf("info = %+v, want ID and level_name garden", info)
	}
	if info.Snapshot == nil || len(info.Snapshot.Snakes) != 1 {
		t.Error("snapshot missing from created session")
	}
}

func TestCreateSessionUnknownLevel(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "POST", "/api/sessions", map[string]string{"level_id": "volcano"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/sessions/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMoveEndpoint(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	rec := doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", engine.MoveRequest{
		SnakeID: "red-1",
		End:     engine.HeadEnd,
		Target:  engine.Position{X: 2, Y: 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	outcome := decode[service.MoveOutcome](t, rec)
	if !outcome.Accepted {
		t.Fatalf("outcome = %+v, want accepted", outcome)
	}
	if outcome.Snapshot.TotalMoves != 1 {
		t.Errorf("TotalMoves = %d, want 1", outcome.Snapshot.TotalMoves)
	}
}

func TestMoveRejectionReturns200(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	rec := doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", engine.MoveRequest{
		SnakeID: "red-1",
		End:     engine.HeadEnd,
		Target:  engine.Position{X: 6, Y: 6},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for gameplay rejection", rec.Code)
	}
	outcome := decode[service.MoveOutcome](t, rec)
	if outcome.Accepted || outcome.Reason != engine.RejectNotAdjacent {
		t.Errorf("outcome = %+v, want not_adjacent rejection", outcome)
	}
}

func TestMoveDefaultsToHeadEnd(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	rec := doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", map[string]interface{}{
		"snake_id": "red-1",
		"target":   map[string]int{"x": 2, "y": 1},
	})
	outcome := decode[service.MoveOutcome](t, rec)
	if !outcome.Accepted {
		t.Errorf("outcome = %+v, want accepted with head default", outcome)
	}
}

func TestMoveInvalidBody(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	req := httptest.NewRequest("POST", "/api/sessions/"+id+"/move", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResetEndpoint(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", engine.MoveRequest{
		SnakeID: "red-1", End: engine.HeadEnd, Target: engine.Position{X: 2, Y: 1},
	})

	rec := doRequest(t, srv, "POST", "/api/sessions/"+id+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, "GET", "/api/sessions/"+id+"/snapshot", nil)
	snap := decode[engine.Snapshot](t, rec)
	if snap.Snakes[0].Head() != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("head after reset = %v, want (1,1)", snap.Snakes[0].Head())
	}
}

func TestBusyEndpointGatesMoves(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	rec := doRequest(t, srv, "POST", "/api/sessions/"+id+"/busy", map[string]bool{"busy": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("busy status = %d", rec.Code)
	}

	rec = doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", engine.MoveRequest{
		SnakeID: "red-1", End: engine.HeadEnd, Target: engine.Position{X: 2, Y: 1},
	})
	outcome := decode[service.MoveOutcome](t, rec)
	if outcome.Accepted || outcome.Reason != engine.RejectAnimationInProgress {
		t.Errorf("outcome = %+v, want animation_in_progress rejection", outcome)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	for x := 2; x <= 4; x++ {
		doRequest(t, srv, "POST", "/api/sessions/"+id+"/move", engine.MoveRequest{
			SnakeID: "red-1", End: engine.HeadEnd, Target: engine.Position{X: x, Y: 1},
		})
	}

	rec := doRequest(t, srv, "GET", fmt.Sprintf("/api/sessions/%s/history?order=asc&limit=2", id), nil)
	resp := decode[service.HistoryResponse](t, rec)
	if resp.TotalMoves != 3 || len(resp.Moves) != 2 {
		t.Errorf("history = %+v, want 3 total with 2 on page", resp)
	}
	if resp.Moves[0].Target != (engine.Position{X: 2, Y: 1}) {
		t.Errorf("first move = %+v, want target (2,1)", resp.Moves[0])
	}
}

func TestLevelEndpoints(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/levels", nil)
	levels := decode[[]*service.LevelInfo](t, rec)
	if len(levels) != 1 || levels[0].LevelID != "garden" {
		t.Fatalf("levels = %+v, want one garden entry", levels)
	}

	rec = doRequest(t, srv, "GET", "/api/levels/garden", nil)
	cfg := decode[engine.LevelConfig](t, rec)
	if cfg.Name != "Test Garden" {
		t.Errorf("level name = %q", cfg.Name)
	}

	newLevel := testLevel()
	newLevel.Name = "meadow"
	rec = doRequest(t, srv, "POST", "/api/levels", newLevel)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save level status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, "GET", "/api/levels/meadow", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("saved level not readable, status %d", rec.Code)
	}
}

func TestDeleteSessionEndpoint(t *testing.T) {
	srv := newTestServer()
	id := createSession(t, srv)

	rec := doRequest(t, srv, "DELETE", "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doRequest(t, srv, "GET", "/api/sessions/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}

func TestListSessionsSortAndLimit(t *testing.T) {
	srv := newTestServer()
	createSession(t, srv)
	createSession(t, srv)
	createSession(t, srv)

	rec := doRequest(t, srv, "GET", "/api/sessions?limit=2", nil)
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Sessions) != 2 {
		t.Errorf("count = %d with %d sessions, want 2", resp.Count, len(resp.Sessions))
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
