package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nikhilr612/alesia/game/config"
	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/game/worldfile"
	"github.com/nikhilr612/alesia/transport/websocket"
	"github.com/nikhilr612/alesia/validate"
)

// Server represents the REST API server
type Server struct {
	service service.WorldService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(worldService service.WorldService, hub *websocket.Hub) *Server {
	s := &Server{
		service: worldService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Worlds
	api.HandleFunc("/worlds", s.handleListWorlds).Methods("GET")
	api.HandleFunc("/worlds/{name}", s.handleGetWorld).Methods("GET")
	api.HandleFunc("/worlds/{name}/tiles/{x}/{y}", s.handleDescribeTile).Methods("GET")
	api.HandleFunc("/worlds/{name}/reload", s.handleReloadWorld).Methods("POST")

	// Validation
	api.HandleFunc("/validate", s.handleValidate).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": message,
		"code":  status,
	})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrWorldNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidName), errors.Is(err, service.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, worldfile.ErrMalformed), errors.Is(err, config.ErrInvalidManifest):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// World Handlers

func (s *Server) handleListWorlds(w http.ResponseWriter, r *http.Request) {
	worlds, err := s.service.ListWorlds(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if worlds == nil {
		worlds = []*service.WorldInfo{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(worlds),
		"worlds": worlds,
	})
}

func (s *Server) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	detail, err := s.service.GetWorld(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDescribeTile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	x, errX := strconv.Atoi(vars["x"])
	y, errY := strconv.Atoi(vars["y"])
	if errX != nil || errY != nil {
		respondError(w, http.StatusBadRequest, "Coordinates must be integers")
		return
	}

	tile, err := s.service.DescribeTile(r.Context(), vars["name"], x, y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tile)
}

func (s *Server) handleReloadWorld(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	detail, err := s.service.ReloadWorld(r.Context(), name)
	if err != nil {
		log.Printf("[RELOAD] world=%s failed: %v", name, err)
		respondServiceError(w, err)
		return
	}

	log.Printf("[RELOAD] world=%s revision=%s size=%dx%d statics=%d units=%d",
		detail.ID, detail.Revision, detail.Width, detail.Height, detail.Statics, detail.PlayerUnits+detail.EnemyUnits)

	// Broadcast to WebSocket subscribers
	if s.hub != nil {
		s.hub.BroadcastWorld(detail.ID, detail.Revision, websocket.EventWorldReloaded, detail.WorldInfo)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "World reloaded successfully",
		"world":   detail,
	})
}

// Validation Handler

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.ValidateWorlds(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   validate.AllValid(results),
		"count":   len(results),
		"results": results,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates are not enabled", http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("world")
	if name == "" {
		http.Error(w, "world parameter required", http.StatusBadRequest)
		return
	}

	// Verify world exists
	detail, err := s.service.GetWorld(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, detail.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
