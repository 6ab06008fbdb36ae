package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/snakefall/snakefall/api"
	"github.com/snakefall/snakefall/game/config"
	"github.com/snakefall/snakefall/game/service"
	"github.com/snakefall/snakefall/game/session"
	"github.com/snakefall/snakefall/transport/mcp"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	levelManager, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), levelManager)
	apiServer := api.NewServer(svc, nil)
	mcpClient := mcp.NewClient("http://127.0.0.1:0")

	return newRouter(apiServer, mcpClient)
}

func TestRouterServesAPI(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestMCPEndpointRejectsGet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/mcp", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestMCPEndpointAnswersJSONRPC(t *testing.T) {
	router := newTestRouter(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "jsonrpc") {
		t.Errorf("body = %s, want a JSON-RPC response", rec.Body.String())
	}
}
