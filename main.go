// Command snakefall starts the snake puzzle game server.
//
// It has two subcommands:
//
//	serve  (default) – HTTP server exposing the REST API, WebSocket hub, and
//	                   an /mcp HTTP endpoint
//	mcp              – MCP stdio server, reusing an external API if one is
//	                   already listening, otherwise spinning up an internal
//	                   loopback API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/snakefall/snakefall/api"
	"github.com/snakefall/snakefall/game/config"
	"github.com/snakefall/snakefall/game/service"
	"github.com/snakefall/snakefall/game/session"
	"github.com/snakefall/snakefall/transport/mcp"
	"github.com/snakefall/snakefall/transport/websocket"
)

const (
	version = "1.0.0"
	appName = "Snakefall Server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not load .env file")
	}

	cmd := &cli.Command{
		Name:    "snakefall",
		Usage:   appName,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "levels-dir",
				Value:   "levels",
				Usage:   "directory containing level JSON files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory for persisted sessions",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (REST, WebSocket, /mcp)",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "run the MCP stdio server",
				Action: runStdioMCP,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// initializeServices wires the level manager, session persistence, session
// manager, and game service, and starts the session cleanup routine.
func initializeServices(cmd *cli.Command) (service.GameService, error) {
	levelManager, err := config.NewManager(cmd.String("levels-dir"))
	if err != nil {
		return nil, fmt.Errorf("create level manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(cmd.String("sessions-dir"), levelManager)
	if err != nil {
		return nil, fmt.Errorf("create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.WithError(err).Warn("could not load persisted sessions")
	}

	go sessionCleanupRoutine(sessionManager)

	return service.NewGameService(sessionManager, levelManager), nil
}

// sessionCleanupRoutine prunes sessions not accessed within the retention
// window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed > 0 {
			log.WithField("removed", removed).Info("cleaned up expired sessions")
		}
	}
}

// newRouter builds the full HTTP surface: the REST API at root plus the /mcp
// JSON-RPC endpoint proxied through the MCP client.
func newRouter(apiServer *api.Server, mcpClient *mcp.Client) http.Handler {
	router := http.NewServeMux()
	router.Handle("/", apiServer)

	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.WithError(err).Error("encode mcp response")
		}
	})

	return router
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	gameService, err := initializeServices(cmd)
	if err != nil {
		return err
	}

	hub := websocket.NewHub(gameService)
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient("http://" + addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(apiServer, mcpClient),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":      addr,
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Info("server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
	return nil
}

// runStdioMCP serves MCP over stdio. It reuses an API already listening at
// localhost:PORT; otherwise it starts an internal API on a loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.WithField("url", externalURL).Info("using external API server")
	} else {
		gameService, err := initializeServices(cmd)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen on loopback: %w", err)
		}

		hub := websocket.NewHub(gameService)
		go hub.Run()

		internal := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := internal.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("internal API server")
			}
		}()

		baseURL = fmt.Sprintf("http://%s", listener.Addr())
		log.WithField("url", baseURL).Info("started internal API server")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")
	return mcpserver.ServeStdio(mcpClient.GetMCPServer())
}
