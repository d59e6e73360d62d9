// Command alesia serves a directory of .alw world files.
//
// In the default "server" mode it exposes the worlds over a REST API, a
// WebSocket feed of reload events and an /mcp JSON-RPC endpoint, reloading
// files as they are edited on disk. In "stdio-mcp" mode it speaks MCP over
// stdin/stdout for agent clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikhilr612/alesia/game/config"
	"github.com/nikhilr612/alesia/game/service"
)

const (
	Version = "1.0.0"
	AppName = "Alesia World Server"
)

var (
	port     = flag.Int("port", 8080, "Port of the world API")
	host     = flag.String("host", "localhost", "Interface the world API binds to")
	worldDir = flag.String("world-dir", getWorldDirDefault(), "Directory of .alw world files and their .json manifests")
	watch    = flag.Duration("watch", 5*time.Second, "How often to rescan the world directory for edits (0 disables)")
	debug    = flag.Bool("debug", false, "Log the file and line of each message")
	version  = flag.Bool("version", false, "Print the version and exit")

	ngrokEnabled = flag.Bool("ngrok", false, "Publish the world API through an ngrok tunnel (or NGROK_ENABLED=true)")
	ngrokAuth    = flag.String("ngrok-auth", "", "ngrok auth token (default $NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Reserved ngrok domain (default $NGROK_DOMAIN)")
)

// getWorldDirDefault returns WORLD_DIR when set, otherwise "worlds"
func getWorldDirDefault() string {
	if dir := os.Getenv("WORLD_DIR"); dir != "" {
		return dir
	}
	return "worlds"
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
	fmt.Fprintf(out, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\n", os.Args[0])
	fmt.Fprintf(out, "Modes:\n")
	fmt.Fprintf(out, "  server     Serve worlds over REST, WebSocket and /mcp (default)\n")
	fmt.Fprintf(out, "  stdio-mcp  Serve the world tools over MCP stdio (alias: mcp)\n")
	fmt.Fprintf(out, "\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s -world-dir maps         # Serve ./maps on :8080\n", os.Args[0])
	fmt.Fprintf(out, "  %s -watch 0                # Never reload edited files\n", os.Args[0])
	fmt.Fprintf(out, "  %s stdio-mcp -port 9090    # MCP stdio against a server on :9090\n", os.Args[0])
}

func main() {
	loadEnv()

	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	mode := "server"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	log.Printf("Starting %s v%s (mode: %s, worlds: %s)", AppName, Version, mode, *worldDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worldService, err := initializeServices(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "server", "http":
		err = runHTTPServer(ctx, worldService)
	case "stdio-mcp", "mcp":
		err = runStdioMCP(worldService)
	default:
		err = fmt.Errorf("unknown mode %q, want server or stdio-mcp", mode)
	}
	if err != nil {
		stop()
		log.Fatal(err)
	}
}

// loadEnv reads .env from the working directory when present
func loadEnv() {
	err := godotenv.Load()
	switch {
	case err == nil:
		log.Println("Loaded environment variables from .env")
	case !errors.Is(err, fs.ErrNotExist):
		log.Printf("Warning: failed to read .env: %v", err)
	}
}

// initializeServices opens the world catalog and loads every world into its
// cache so broken files are reported at startup rather than on first request.
func initializeServices(ctx context.Context) (service.WorldService, error) {
	catalog, err := config.NewManager(*worldDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open world directory: %w", err)
	}

	worldService := service.NewWorldService(catalog)
	if err := warmUp(ctx, worldService); err != nil {
		return nil, err
	}
	return worldService, nil
}

func warmUp(ctx context.Context, worldService service.WorldService) error {
	worlds, err := worldService.ListWorlds(ctx)
	if err != nil {
		return fmt.Errorf("failed to load worlds: %w", err)
	}

	results, err := worldService.ValidateWorlds(ctx)
	if err != nil {
		return fmt.Errorf("failed to validate worlds: %w", err)
	}

	invalid := 0
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
	}
	log.Printf("Loaded %d worlds from %s (%d invalid)", len(worlds), *worldDir, invalid)
	return nil
}
