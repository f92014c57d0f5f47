// Package api serves a small localhost HTTP API exposing the client's live
// state for debugging: what the store believes, and what the animation queue
// is doing. Optional, off by default.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AllyssinXD/card-game-web/internal/anim"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/state"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// Server is the debug status server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	store    *state.Store
	orch     *anim.Orchestrator
	registry *visual.Registry
}

// NewServer creates a debug server bound to localhost.
func NewServer(port int, store *state.Store, orch *anim.Orchestrator, registry *visual.Registry) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		port:     port,
		store:    store,
		orch:     orch,
		registry: registry,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	s.router.Get("/health", s.healthCheck)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Get("/animations", s.getAnimations)
	})

	return s
}

// Start begins serving. Non-blocking.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("[API] Debug server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] Server error: %v", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// stateResponse is the serialized store snapshot.
type stateResponse struct {
	LocalID    string        `json:"localId"`
	Phase      game.Phase    `json:"phase"`
	Turn       string        `json:"turn"`
	CanPlay    bool          `json:"canPlay"`
	Players    []game.Player `json:"players"`
	DiscardTop *game.Card    `json:"discardTop,omitempty"`
	HandSize   int           `json:"handSize"`
	EventSeq   uint64        `json:"eventSeq"`
	EventKind  string        `json:"eventKind"`
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st := s.store.Snapshot()
	ev := s.store.CurrentEvent()
	writeJSON(w, http.StatusOK, stateResponse{
		LocalID:    s.store.LocalID(),
		Phase:      st.Phase,
		Turn:       st.TurnPlayerID,
		CanPlay:    s.store.CanPlay(),
		Players:    st.Players,
		DiscardTop: st.DiscardTop,
		HandSize:   len(st.LocalHand),
		EventSeq:   ev.Seq,
		EventKind:  ev.Kind.String(),
	})
}

// animationsResponse summarizes the orchestrator queue and registry.
type animationsResponse struct {
	Active     int      `json:"active"`
	Deferred   int      `json:"deferred"`
	Handles    int      `json:"handles"`
	HandleKeys []string `json:"handleKeys"`
}

func (s *Server) getAnimations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, animationsResponse{
		Active:     s.orch.ActiveCount(),
		Deferred:   s.orch.DeferredCount(),
		Handles:    s.registry.Len(),
		HandleKeys: s.registry.Keys(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}
