// internal/httpserver/server.go
//
// HTTP server wiring for the mole game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: GET /api/daily, POST /api/play_turn.
//
// The service holds no session state. Every request either derives the
// day's puzzle (cached, acquire-once) or verifies a client-presented
// state token; nothing is committed server-side between requests beyond
// the advisory replay guard.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/mole-game/internal/daily"
	"github.com/robalobadob/mole-game/internal/dialogue"
	"github.com/robalobadob/mole-game/internal/store"
)

// Server bundles the router with the daily generator, dialogue provider,
// and replay guard.
type Server struct {
	r        *chi.Mux
	puzzles  *daily.Generator
	dialogue dialogue.Orchestrator
	replays  store.ReplayGuard
}

// New constructs a Server, installs middleware, and registers routes.
func New(gen *daily.Generator, orch dialogue.Orchestrator, guard store.ReplayGuard) *Server {
	s := &Server{r: chi.NewRouter(), puzzles: gen, dialogue: orch, replays: guard}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(60 * time.Second)) // bound handler time (covers dialogue generation)
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"mole-game","endpoints":["/health","GET /api/daily","POST /api/play_turn"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/daily", s.handleDaily)
		r.Post("/play_turn", s.handlePlayTurn)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:3000.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeDetail emits the {"detail": ...} error shape shared by all failures.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
