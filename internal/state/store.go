// Package state holds the canonical server-pushed game state and derives
// discrete transition events from inbound merges.
//
// The store never predicts: outbound actions mutate nothing locally, and an
// inbound message always wins over whatever the client was showing.
package state

import (
	"fmt"
	"log"
	"sync"

	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/protocol"
)

// Scene names published with events.TypeSceneSwitch.
const (
	SceneLobby = "Lobby"
	SceneGame  = "Game"
)

// ActionSender delivers outbound commands to the server. Implemented by the
// websocket client; tests substitute a recorder.
type ActionSender interface {
	Send(action protocol.Action) error
}

// Store is the single source of truth for game state on this client.
//
// Merging is last-write-wins per field: a field absent from an inbound
// message leaves the store's value unchanged. There is no schema validation
// and no out-of-order buffering; messages are merged in arrival order.
type Store struct {
	mu sync.RWMutex

	localID string
	state   game.State
	winner  string

	// current is the most recent derived transition event. seq increases
	// monotonically; consumers dedupe on it, never on payload equality.
	current game.Event
	seq     uint64

	dispatcher *events.Dispatcher
	sender     ActionSender
}

// NewStore creates a Store publishing to the given dispatcher.
func NewStore(dispatcher *events.Dispatcher) *Store {
	return &Store{dispatcher: dispatcher}
}

// SetSender wires the outbound transport. Kept separate from the constructor
// because the transport needs the store first (for inbound delivery).
func (s *Store) SetSender(sender ActionSender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// LocalID returns this client's player id, or "" before the server assigned one.
func (s *Store) LocalID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localID
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() game.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Winner returns the winner id of the last finished game, or "".
func (s *Store) Winner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.winner
}

// CanPlay reports whether the local player may act right now.
func (s *Store) CanPlay() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Phase == game.PhaseInProgress && s.state.TurnPlayerID == s.localID
}

// CurrentEvent returns the most recent transition event. Seq 0 means no
// event has been derived yet.
func (s *Store) CurrentEvent() game.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ApplyInbound merges a server message into the state and derives at most
// one transition event from the post-merge state. Unknown or malformed
// fields are skipped individually; a bad event tag never rejects the rest of
// the message.
func (s *Store) ApplyInbound(msg protocol.Message) {
	s.mu.Lock()

	oldPhase := s.state.Phase
	oldTurn := s.state.TurnPlayerID
	oldHand := s.state.LocalHand

	if msg.YourID != nil {
		s.localID = *msg.YourID
	}
	if msg.GameState != nil {
		if phase, ok := game.ParsePhase(*msg.GameState); ok {
			s.state.Phase = phase
		} else {
			log.Printf("[Store] Ignoring unknown gameState %q", *msg.GameState)
		}
	}
	if msg.Turn != nil {
		s.state.TurnPlayerID = *msg.Turn
	}
	if msg.Players != nil {
		players := make([]game.Player, 0, len(*msg.Players))
		for _, wp := range *msg.Players {
			players = append(players, wp.Player())
		}
		s.state.Players = players
	}
	if msg.LastCard != nil {
		card := msg.LastCard.Card()
		s.state.DiscardTop = &card
	}
	if msg.State != nil {
		hand := make([]game.Card, 0, len(msg.State.Cards))
		for _, wc := range msg.State.Cards {
			hand = append(hand, wc.Card())
		}
		s.state.LocalHand = hand
	}
	if msg.Winner != nil {
		s.winner = *msg.Winner
	}

	// Events are derived only from the post-merge state, never from a
	// stale intermediate.
	ev, ok := s.deriveEvent(msg, oldPhase, oldTurn, oldHand)
	if ok {
		s.seq++
		ev.Seq = s.seq
		s.current = ev
	}

	newPhase := s.state.Phase
	snapshot := s.state.Clone()
	winner := s.winner
	s.mu.Unlock()

	if oldPhase != newPhase {
		scene := SceneLobby
		if newPhase == game.PhaseInProgress {
			scene = SceneGame
		}
		s.dispatcher.Dispatch(events.Event{Type: events.TypeSceneSwitch, Data: scene})
	}
	if ok && ev.Kind == game.EventGameEnded {
		s.dispatcher.Dispatch(events.Event{Type: events.TypeGameEnded, Data: winner})
	}
	s.dispatcher.Dispatch(events.Event{Type: events.TypeStateUpdated, Data: snapshot})
}

// deriveEvent picks the single transition event implied by a merged message.
// Priority: explicit event tag, then a phase start, then a turn change. The
// turn highlight is additionally re-applied from every state update, so a
// turn change folded into a tagged message is not lost.
func (s *Store) deriveEvent(msg protocol.Message, oldPhase game.Phase, oldTurn string, oldHand []game.Card) (game.Event, bool) {
	if msg.Event != nil {
		tag, ok := protocol.ParseEventTag(*msg.Event)
		if !ok {
			log.Printf("[Store] Ignoring malformed event tag %q", *msg.Event)
		} else {
			switch tag.Kind {
			case protocol.TagPlayerEntered:
				return game.Event{Kind: game.EventPlayerJoined}, true
			case protocol.TagEndGame:
				return game.Event{Kind: game.EventGameEnded, PlayerID: s.winner}, true
			case protocol.TagPlayed:
				card := s.playedCard(tag.CardID)
				return game.Event{Kind: game.EventCardPlayed, PlayerID: tag.PlayerID, Card: &card}, true
			case protocol.TagBuyed:
				card := s.drawnCard(tag.PlayerID, oldHand)
				return game.Event{Kind: game.EventCardDrawn, PlayerID: tag.PlayerID, Card: &card}, true
			}
		}
	}

	if s.state.Phase == game.PhaseInProgress && oldPhase != game.PhaseInProgress {
		return game.Event{Kind: game.EventGameStarted}, true
	}

	if msg.Turn != nil && s.state.TurnPlayerID != oldTurn {
		return game.Event{Kind: game.EventTurnChanged, PlayerID: s.state.TurnPlayerID}, true
	}

	return game.Event{}, false
}

// playedCard resolves the face of a played card. The discard top from the
// same message is authoritative; if the server did not include it the face
// stays hidden rather than guessed.
func (s *Store) playedCard(cardID string) game.Card {
	if s.state.DiscardTop != nil && s.state.DiscardTop.ID == cardID {
		return *s.state.DiscardTop
	}
	return game.HiddenCard(cardID)
}

// drawnCard resolves the face of a drawn card. Only the local player's draws
// have a visible face, found by diffing the merged hand against the previous
// one. Remote draws are always hidden.
func (s *Store) drawnCard(playerID string, oldHand []game.Card) game.Card {
	if playerID != s.localID {
		return game.HiddenCard("BUYING_" + playerID)
	}
	known := make(map[string]bool, len(oldHand))
	for _, c := range oldHand {
		known[c.ID] = true
	}
	for _, c := range s.state.LocalHand {
		if !known[c.ID] {
			return c
		}
	}
	return game.HiddenCard("BUYING_" + playerID)
}

// Dispatch sends an action to the server. No local mutation: the authoritative
// result arrives as a normal inbound merge.
func (s *Store) Dispatch(action protocol.Action) error {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()

	if sender == nil {
		return fmt.Errorf("dispatch %q: no transport connected", action.Action)
	}
	return sender.Send(action)
}
