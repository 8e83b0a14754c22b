package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a Solver over HTTP.
type Server struct {
	Solver   *cli.Solver
	Streams  *StreamManager
	Sessions *session.Manager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler. A nil gatherer disables /metrics.
func NewHandler(solver *cli.Solver, gatherer prometheus.Gatherer) http.Handler {
	logger := solver.Logger
	if logger == nil {
		logger = slog.Default()
	}
	server := &Server{
		Solver:   solver,
		Streams:  NewStreamManager(logger),
		Gatherer: gatherer,
		Logger:   logger,
	}
	live := *solver
	live.Hooks = server.Streams.Hooks(solver.Hooks)
	server.Sessions = session.NewManager(&live, session.WithLogger(logger))

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/constraints", server.GetConstraints)
	r.Post("/solve", server.Solve)
	r.Get("/events", server.SubscribeEvents)
	r.Route("/networks", func(r chi.Router) {
		r.Get("/", server.ListNetworks)
		r.Post("/", server.CreateNetwork)
		r.Get("/{id}", server.GetNetwork)
		r.Delete("/{id}", server.DeleteNetwork)
		r.Post("/{id}/values", server.AssertValues)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Solve handles the POST /solve request. Contradictions and non-termination
// are reported with 200 and the matching status; only malformed problems
// are client errors.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	problem, ok := s.decodeProblem(w, r)
	if !ok {
		return
	}

	solver := *s.Solver
	solver.Hooks = s.Streams.Hooks(s.Solver.Hooks)

	sol, err := solver.Solve(r.Context(), problem)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, sol)
}

// CreateNetwork handles POST /networks: the problem is solved and the
// network kept alive for further assertions.
func (s *Server) CreateNetwork(w http.ResponseWriter, r *http.Request) {
	problem, ok := s.decodeProblem(w, r)
	if !ok {
		return
	}

	sol, err := s.Sessions.Create(r.Context(), problem)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Location", "/networks/"+sol.NetworkID)
	s.writeJSON(w, http.StatusCreated, sol)
}

// ListNetworks handles GET /networks.
func (s *Server) ListNetworks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"networks": s.Sessions.List()})
}

// GetNetwork handles GET /networks/{id}.
func (s *Server) GetNetwork(w http.ResponseWriter, r *http.Request) {
	sol, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, sol)
}

// DeleteNetwork handles DELETE /networks/{id}.
func (s *Server) DeleteNetwork(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssertRequest is the body of POST /networks/{id}/values.
type AssertRequest struct {
	Values []string `json:"values"`
}

// AssertValues handles POST /networks/{id}/values.
func (s *Server) AssertValues(w http.ResponseWriter, r *http.Request) {
	var req AssertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	clean, err := (cli.Problem{Values: req.Values}).Sanitize()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sol, err := s.Sessions.Assert(r.Context(), chi.URLParam(r, "id"), clean.Values)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, sol)
}

func (s *Server) decodeProblem(w http.ResponseWriter, r *http.Request) (cli.Problem, bool) {
	var problem cli.Problem
	if err := json.NewDecoder(r.Body).Decode(&problem); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return problem, false
	}
	problem, err := problem.Sanitize()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return problem, false
	}
	return problem, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case cli.IsUsageError(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// GetConstraints handles the GET /constraints request.
func (s *Server) GetConstraints(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Solver.Constraints())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "propnet-http",
		"version": strings.TrimSpace(propnet.Version),
		"policy":  string(s.Solver.Config.Policy),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
