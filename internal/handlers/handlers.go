// Package handlers exposes the simulator over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/report"
	"github.com/xtding233/mlbsim/internal/series"
	"github.com/xtding233/mlbsim/internal/service"
	"github.com/xtding233/mlbsim/internal/stats"
	"github.com/xtding233/mlbsim/internal/teams"
)

// Simulator is the part of service.Service the handlers use.
type Simulator interface {
	Simulate(ctx context.Context, req service.Request) (service.Response, error)
	RandomLineup(statsDir, club string, seed *uint64) (service.Lineup, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc     Simulator
	log     *log.Logger
	timeout time.Duration
}

// NewHandler creates a new handler with dependencies
func NewHandler(svc Simulator, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{svc: svc, log: logger, timeout: 60 * time.Second}
}

// Routes mounts every endpoint on a new chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams", h.ListTeams)
		r.Get("/teams/{club}", h.GetTeam)
		r.Post("/simulate", h.Simulate)
		r.Post("/lineups/random", h.RandomLineup)
	})
	return r
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "mlbsim",
	})
}

// ListTeams returns the thirty clubs and their colors.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	all := teams.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": all,
		"count": len(all),
	})
}

// GetTeam resolves a club by name or abbreviation.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := teams.Lookup(chi.URLParam(r, "club"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

type simulateRequest struct {
	Matchup string `json:"matchup"`
	config.Overrides
	PlayByPlay bool `json:"play_by_play"`
}

type gameLog struct {
	Repetition int                     `json:"repetition"`
	Game       int                     `json:"game"`
	Plays      []game.PlayRecord       `json:"plays"`
	Halves     []game.HalfInningRecord `json:"half_innings"`
}

type simulateResponse struct {
	Lineups [2]service.Lineup `json:"lineups"`
	Summary series.Summary    `json:"summary"`
	Logs    []gameLog         `json:"logs,omitempty"`
}

// Simulate runs a batch. Body fields override the named matchup.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var body simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req := service.Request{Matchup: body.Matchup, Overrides: body.Overrides}
	var logs logSet
	if body.PlayByPlay {
		req.Reporter = logs.reporter
	}

	resp, err := h.svc.Simulate(ctx, req)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, simulateResponse{
		Lineups: resp.Lineups,
		Summary: resp.Summary,
		Logs:    logs.sorted(),
	})
}

type lineupRequest struct {
	Team string  `json:"team"`
	Seed *uint64 `json:"seed"`
}

// RandomLineup draws a lineup and starter for one club.
func (h *Handler) RandomLineup(w http.ResponseWriter, r *http.Request) {
	var body lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if body.Team == "" {
		h.respondError(w, http.StatusBadRequest, "team is required", nil)
		return
	}
	l, err := h.svc.RandomLineup("", body.Team, body.Seed)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// logSet collects one recorder per game while games run concurrently.
type logSet struct {
	mu   sync.Mutex
	recs map[[2]int]*report.Recorder
}

func (s *logSet) reporter(rep, g int) game.Reporter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recs == nil {
		s.recs = make(map[[2]int]*report.Recorder)
	}
	r := &report.Recorder{}
	s.recs[[2]int{rep, g}] = r
	return r
}

func (s *logSet) sorted() []gameLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gameLog, 0, len(s.recs))
	for k, r := range s.recs {
		out = append(out, gameLog{Repetition: k[0] + 1, Game: k[1] + 1, Plays: r.Plays(), Halves: r.HalfInnings()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Repetition != out[j].Repetition {
			return out[i].Repetition < out[j].Repetition
		}
		return out[i].Game < out[j].Game
	})
	return out
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, lineup.ErrConfiguration),
		errors.Is(err, teams.ErrUnknownTeam),
		errors.Is(err, series.ErrParams):
		return http.StatusBadRequest
	case errors.Is(err, chance.ErrAllocation),
		errors.Is(err, stats.ErrData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrNoStats):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		h.log.Error("request failed", "status", status, "err", err)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
