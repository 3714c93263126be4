// Package api provides the HTTP API for observing world state.
// Every endpoint is a read-only GET, most of them over the latest published
// snapshot.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/engine"
	"github.com/talgya/tribe-world/internal/social"
	"github.com/talgya/tribe-world/internal/tech"
	"github.com/talgya/tribe-world/internal/timeline"
)

// Event list bounds.
const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// SnapshotSource publishes the latest world state. *engine.Engine implements it.
type SnapshotSource interface {
	Latest() *engine.Snapshot
}

// EventStore serves the persisted event history. *persistence.DB implements it.
type EventStore interface {
	RecentEvents(limit int) ([]timeline.Event, error)
	RunID() string
}

// Server serves the world state over HTTP.
type Server struct {
	Source SnapshotSource
	Store  EventStore        // Optional; enables ?source=db on /events
	Techs  []tech.Technology // Static tree served by /technologies
	Seed   int64             // Reported by /status
	Port   int

	// Full-state requests per client per minute. 0 = unlimited.
	StateRateLimit int
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	var stateLimiter *RateLimiter
	if s.StateRateLimit > 0 {
		stateLimiter = NewRateLimiter(s.StateRateLimit, time.Minute)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.withSnapshot(s.handleStatus))
	mux.HandleFunc("/api/v1/state", RateLimitMiddleware(stateLimiter, s.withSnapshot(s.handleState)))
	mux.HandleFunc("/api/v1/tribes", s.withSnapshot(s.handleTribes))
	mux.HandleFunc("/api/v1/tribe/", s.withSnapshot(s.handleTribeDetail))
	mux.HandleFunc("/api/v1/agents", s.withSnapshot(s.handleAgents))
	mux.HandleFunc("/api/v1/agent/", s.withSnapshot(s.handleAgentDetail))
	mux.HandleFunc("/api/v1/events", s.withSnapshot(s.handleEvents))
	mux.HandleFunc("/api/v1/technologies", s.handleTechnologies)

	return corsMiddleware(getOnly(mux))
}

// Serve runs the HTTP API until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP API starting", "addr", srv.Addr, "event_store", s.Store != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type snapshotHandler func(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot)

// withSnapshot pins one snapshot for the whole request, or answers 503 if
// the engine has not published one yet.
func (s *Server) withSnapshot(h snapshotHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap *engine.Snapshot
		if s.Source != nil {
			snap = s.Source.Latest()
		}
		if snap == nil {
			http.Error(w, "world not ready", http.StatusServiceUnavailable)
			return
		}
		h(w, r, snap)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	pop := snap.Population()

	discovered := 0
	for _, t := range snap.Tribes {
		discovered += len(t.DiscoveredTech)
	}

	status := map[string]any{
		"tick":           snap.Tick,
		"seed":           s.Seed,
		"year":           snap.Tick / engine.TicksPerYear,
		"weather":        snap.Weather,
		"tribes":         len(snap.Tribes),
		"alive":          pop.Alive,
		"dead":           pop.Dead,
		"mean_happiness": pop.MeanHappiness,
		"discoveries":    discovered,
	}
	if s.Store != nil {
		status["run_id"] = s.Store.RunID()
	}
	writeJSON(w, status)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	writeJSON(w, snap)
}

type tribeSummary struct {
	engine.TribeState
	Population engine.PopulationStats `json:"population"`
}

func (s *Server) handleTribes(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	result := make([]tribeSummary, 0, len(snap.Tribes))
	for _, t := range snap.Tribes {
		result = append(result, tribeSummary{
			TribeState: t,
			Population: snap.TribePopulation(t.ID),
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleTribeDetail(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	id, ok := pathID(w, r, "/api/v1/tribe/", "tribe")
	if !ok {
		return
	}

	tribe, ok := snap.Tribe(social.TribeID(id))
	if !ok {
		http.Error(w, "tribe not found", http.StatusNotFound)
		return
	}

	members := make([]engine.AgentState, 0)
	for _, a := range snap.Agents {
		if a.TribeID == tribe.ID {
			members = append(members, a)
		}
	}

	writeJSON(w, map[string]any{
		"tribe":      tribe,
		"population": snap.TribePopulation(tribe.ID),
		"members":    members,
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	q := r.URL.Query()

	var tribeFilter *social.TribeID
	if v := q.Get("tribe"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid tribe id", http.StatusBadRequest)
			return
		}
		tid := social.TribeID(id)
		tribeFilter = &tid
	}

	var aliveFilter *bool
	if v := q.Get("alive"); v != "" {
		alive, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid alive filter", http.StatusBadRequest)
			return
		}
		aliveFilter = &alive
	}

	result := make([]engine.AgentState, 0, len(snap.Agents))
	for _, a := range snap.Agents {
		if tribeFilter != nil && a.TribeID != *tribeFilter {
			continue
		}
		if aliveFilter != nil && a.Alive != *aliveFilter {
			continue
		}
		result = append(result, a)
	}
	writeJSON(w, result)
}

func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	id, ok := pathID(w, r, "/api/v1/agent/", "agent")
	if !ok {
		return
	}

	agent, ok := snap.Agent(agents.AgentID(id))
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, agent)
}

// handleEvents returns the newest events in chronological order, from the
// snapshot timeline or, with ?source=db, from the persisted history.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, snap *engine.Snapshot) {
	q := r.URL.Query()

	limit := defaultEventLimit
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > maxEventLimit {
			http.Error(w, fmt.Sprintf("limit must be 1-%d", maxEventLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	switch q.Get("source") {
	case "", "timeline":
		events := snap.Timeline
		if len(events) > limit {
			events = events[len(events)-limit:]
		}
		writeJSON(w, events)

	case "db":
		if s.Store == nil {
			http.Error(w, "event history not available", http.StatusNotFound)
			return
		}
		events, err := s.Store.RecentEvents(limit)
		if err != nil {
			slog.Error("reading event history", "error", err)
			http.Error(w, "event history unavailable", http.StatusInternalServerError)
			return
		}
		slices.Reverse(events)
		if events == nil {
			events = []timeline.Event{}
		}
		writeJSON(w, events)

	default:
		http.Error(w, "source must be timeline or db", http.StatusBadRequest)
	}
}

// handleTechnologies lists the tree in tree order. It does not depend on a
// snapshot, so it answers before the first tick.
func (s *Server) handleTechnologies(w http.ResponseWriter, r *http.Request) {
	techs := s.Techs
	if techs == nil {
		techs = []tech.Technology{}
	}
	writeJSON(w, techs)
}

// pathID parses the numeric id after prefix, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, prefix, what string) (uint64, bool) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if raw == "" {
		http.Error(w, "missing "+what+" id", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid "+what+" id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("writing response", "error", err)
	}
}
