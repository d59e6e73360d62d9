package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/nikhilr612/alesia/api"
	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/transport/mcp"
	"github.com/nikhilr612/alesia/transport/websocket"
)

// maxMCPRequest bounds a single JSON-RPC message posted to /mcp
const maxMCPRequest = 1 << 20

// runHTTPServer serves the world API until ctx is cancelled. It also starts
// the directory watcher and, when configured, the ngrok tunnel.
func runHTTPServer(ctx context.Context, worldService service.WorldService) error {
	hub := websocket.NewHub()
	go hub.Run()

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	baseURL := "http://" + addr
	handler := newHandler(api.NewServer(worldService, hub), mcp.NewClient(baseURL))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	logEndpoints(ctx, baseURL, worldService)

	if tunnel := tunnelSettingsFromEnv(); tunnel.Enabled {
		go func() {
			if err := serveTunnel(ctx, tunnel, handler, worldService); err != nil {
				log.Printf("Tunnel: %v", err)
			}
		}()
	}

	if *watch > 0 {
		go worldSyncRoutine(ctx, *worldDir, *watch, worldService, hub)
	}

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("world API on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Println("Shutting down world server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("World server stopped")
	return nil
}

// newHandler mounts the world API at / and the MCP JSON-RPC endpoint at /mcp
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))
	return mux
}

func mcpHandler(s *mcpserver.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxMCPRequest))
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.HandleMessage(r.Context(), body)); err != nil {
			log.Printf("MCP: failed to write response: %v", err)
		}
	}
}

// logEndpoints prints the routes of every loaded world under baseURL
func logEndpoints(ctx context.Context, baseURL string, worldService service.WorldService) {
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http")

	log.Printf("World API: %s/api/worlds", baseURL)
	log.Printf("Validation report: %s/api/validate", baseURL)
	log.Printf("MCP endpoint: %s/mcp", baseURL)

	worlds, err := worldService.ListWorlds(ctx)
	if err != nil {
		log.Printf("Failed to list worlds: %v", err)
		return
	}
	for _, info := range worlds {
		log.Printf("  %-16s %dx%d  %s/api/worlds/%s  %s/ws?world=%s",
			info.ID, info.Width, info.Height, baseURL, info.ID, wsURL, info.ID)
	}
}
