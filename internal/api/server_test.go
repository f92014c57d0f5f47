package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AllyssinXD/card-game-web/internal/anim"
	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/protocol"
	"github.com/AllyssinXD/card-game-web/internal/state"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

type noopFactory struct{}

func (noopFactory) CreateCardSprite(card game.Card, x, y float32) visual.Handle { return nil }
func (noopFactory) DestroySprite(h visual.Handle)                               {}

func strptr(s string) *string { return &s }

func newTestServer() (*Server, *state.Store) {
	dispatcher := events.NewDispatcher()
	store := state.NewStore(dispatcher)
	registry := visual.NewRegistry()
	orch := anim.NewOrchestrator(registry, dispatcher, noopFactory{}, store.LocalID)
	return NewServer(9190, store, orch, registry), store
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
}

func TestGetStateReflectsStore(t *testing.T) {
	srv, store := newTestServer()

	players := []protocol.WirePlayer{
		{ID: "p1", Username: "ally", CardsLength: 7},
		{ID: "p2", Username: "bob", CardsLength: 7},
	}
	store.ApplyInbound(protocol.Message{
		YourID:    strptr("p1"),
		GameState: strptr("GOING"),
		Turn:      strptr("p1"),
		Players:   &players,
	})

	req := httptest.NewRequest("GET", "/api/v1/state", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "p1", resp.LocalID)
	assert.Equal(t, game.PhaseInProgress, resp.Phase)
	assert.Equal(t, "p1", resp.Turn)
	assert.True(t, resp.CanPlay)
	assert.Len(t, resp.Players, 2)
}

func TestGetAnimationsEmpty(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/v1/animations", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var resp animationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Zero(t, resp.Active)
	assert.Zero(t, resp.Deferred)
	assert.Zero(t, resp.Handles)
}
