package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/martianrobots/input"
	"github.com/wricardo/mcp-training/martianrobots/mars/engine"
	"github.com/wricardo/mcp-training/martianrobots/mars/service"
	"github.com/wricardo/mcp-training/martianrobots/transport/websocket"
)

// maxBodySize bounds instruction uploads
const maxBodySize = 1 << 20

// Server represents the REST API server
type Server struct {
	service service.MissionService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, which disables the
// websocket feed.
func NewServer(missionService service.MissionService, hub *websocket.Hub) *Server {
	s := &Server{
		service: missionService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("", s.handleHealth).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// One-shot simulation
	api.HandleFunc("/simulate", s.handleSimulate).Methods("POST")

	// Missions
	api.HandleFunc("/missions", s.handleCreateMission).Methods("POST")
	api.HandleFunc("/missions", s.handleListMissions).Methods("GET")
	api.HandleFunc("/missions/{id}", s.handleGetMission).Methods("GET")
	api.HandleFunc("/missions/{id}", s.handleDeleteMission).Methods("DELETE")
	api.HandleFunc("/missions/{id}/robots", s.handleDeployRobot).Methods("POST")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleSaveScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")
	api.HandleFunc("/scenarios/{name}/run", s.handleRunScenario).Methods("POST")

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
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var validationErr *input.ValidationError
	var simulationErr *engine.SimulationError

	switch {
	case errors.Is(err, service.ErrMissionNotFound), errors.Is(err, service.ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &simulationErr),
		errors.Is(err, service.ErrInvalidScenario),
		errors.Is(err, input.ErrInputEmpty),
		errors.Is(err, input.ErrEmptyPositions),
		errors.Is(err, input.ErrEmptyCommands),
		errors.Is(err, input.ErrMismatchedInstruction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Simulation Handlers

// simulateRequest accepts either a structured batch or raw instruction text
type simulateRequest struct {
	engine.Batch
	Input string `json:"input,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", maxBodySize))
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var result *engine.Result
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		result, err = s.service.SimulateText(r.Context(), string(body))
	} else {
		var req simulateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Input != "" {
			result, err = s.service.SimulateText(r.Context(), req.Input)
		} else {
			result, err = s.service.Simulate(r.Context(), &req.Batch)
		}
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Mission Handlers

func (s *Server) handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grid      string `json:"grid,omitempty"`
		GridSizeX *int   `json:"grid_size_x,omitempty"`
		GridSizeY *int   `json:"grid_size_y,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var sizeX, sizeY int
	switch {
	case req.Grid != "":
		var err error
		sizeX, sizeY, err = input.ParseGridLine(req.Grid)
		if err != nil {
			respondServiceError(w, err)
			return
		}
	case req.GridSizeX != nil && req.GridSizeY != nil:
		sizeX, sizeY = *req.GridSizeX, *req.GridSizeY
	default:
		respondError(w, http.StatusBadRequest, "grid or grid_size_x and grid_size_y are required")
		return
	}

	mission, err := s.service.CreateMission(r.Context(), sizeX, sizeY)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mission)
}

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := s.service.ListMissions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"missions": missions,
		"total":    len(missions),
	})
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := s.service.GetMission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mission)
}

func (s *Server) handleDeleteMission(w http.ResponseWriter, r *http.Request) {
	// Subscribers are keyed by the stored id, not the id as typed in the URL
	mission, err := s.service.GetMission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := s.service.DeleteMission(r.Context(), mission.ID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(mission.ID, websocket.EventMissionDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Mission deleted successfully",
	})
}

func (s *Server) handleDeployRobot(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	var req struct {
		Position string `json:"position"`
		Commands string `json:"commands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Position == "" || req.Commands == "" {
		respondError(w, http.StatusBadRequest, "position and commands are required")
		return
	}

	result, err := s.service.DeployRobot(r.Context(), missionID, req.Position, req.Commands)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastDeployment(result)
	}

	respondJSON(w, http.StatusOK, result)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".txt")

	scenario, err := s.service.GetScenario(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}

	info, err := s.service.SaveScenario(r.Context(), req.Name, req.Text)
	if err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save scenario: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".txt")

	run, err := s.service.RunScenario(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket feed disabled", http.StatusServiceUnavailable)
		return
	}

	missionID := r.URL.Query().Get("mission")
	if missionID == "" {
		http.Error(w, "mission parameter required", http.StatusBadRequest)
		return
	}

	mission, err := s.service.GetMission(r.Context(), missionID)
	if err != nil {
		http.Error(w, "Invalid mission", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, mission.ID, mission)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
