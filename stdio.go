package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/nikhilr612/alesia/api"
	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/transport/mcp"
)

// runStdioMCP serves the world tools over stdin/stdout. The tools call the
// world API of a server already running on -host/-port when one answers,
// otherwise an in-process API on a loopback port.
func runStdioMCP(worldService service.WorldService) error {
	baseURL := "http://" + net.JoinHostPort(*host, strconv.Itoa(*port))

	if worldAPIAvailable(baseURL) {
		log.Printf("Using world server at %s", baseURL)
	} else {
		internalURL, shutdown, err := startInternalAPI(worldService)
		if err != nil {
			return err
		}
		defer shutdown()
		log.Printf("No world server at %s, serving worlds internally at %s", baseURL, internalURL)
		baseURL = internalURL
	}

	log.Println("MCP stdio server ready")
	return mcpserver.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// worldAPIAvailable reports whether baseURL answers GET /api/worlds with a
// world listing
func worldAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/worlds")
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var listing struct {
		Count  *int                 `json:"count"`
		Worlds []*service.WorldInfo `json:"worlds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return false
	}
	return listing.Count != nil
}

// startInternalAPI serves the world API without live updates on a random
// loopback port and returns its base URL
func startInternalAPI(worldService service.WorldService) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on loopback: %w", err)
	}

	srv := &http.Server{Handler: api.NewServer(worldService, nil)}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal world API: %v", err)
		}
	}()

	return "http://" + listener.Addr().String(), func() { srv.Close() }, nil
}
