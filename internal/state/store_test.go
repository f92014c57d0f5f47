package state

import (
	"testing"

	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/protocol"
)

func strptr(s string) *string { return &s }

type actionRecorder struct {
	sent []protocol.Action
}

func (r *actionRecorder) Send(a protocol.Action) error {
	r.sent = append(r.sent, a)
	return nil
}

func newTestStore() (*Store, *events.Dispatcher) {
	d := events.NewDispatcher()
	return NewStore(d), d
}

func TestApplyInboundMergesPerField(t *testing.T) {
	s, _ := newTestStore()

	s.ApplyInbound(protocol.Message{YourID: strptr("p1")})
	if s.LocalID() != "p1" {
		t.Fatalf("LocalID() = %q, want p1", s.LocalID())
	}

	players := []protocol.WirePlayer{
		{ID: "p1", Username: "ally", CardsLength: 7},
		{ID: "p2", Username: "bob", CardsLength: 7},
	}
	s.ApplyInbound(protocol.Message{
		Players:   &players,
		GameState: strptr("GOING"),
		Turn:      strptr("p1"),
	})

	st := s.Snapshot()
	if st.Phase != game.PhaseInProgress {
		t.Errorf("Phase = %q, want GOING", st.Phase)
	}
	if st.TurnPlayerID != "p1" {
		t.Errorf("TurnPlayerID = %q, want p1", st.TurnPlayerID)
	}
	if len(st.Players) != 2 {
		t.Fatalf("len(Players) = %d, want 2", len(st.Players))
	}
	if !s.CanPlay() {
		t.Error("CanPlay() = false, want true for local player on their turn")
	}

	// A later message without players must leave them untouched.
	s.ApplyInbound(protocol.Message{Turn: strptr("p2")})
	st = s.Snapshot()
	if len(st.Players) != 2 {
		t.Errorf("players lost on partial merge: len = %d", len(st.Players))
	}
	if s.CanPlay() {
		t.Error("CanPlay() = true after turn passed to p2")
	}
}

func TestApplyInboundIgnoresUnknownPhase(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{GameState: strptr("GOING")})
	s.ApplyInbound(protocol.Message{GameState: strptr("SOMETHING_WEIRD")})
	if got := s.Snapshot().Phase; got != game.PhaseInProgress {
		t.Errorf("Phase = %q after unknown gameState, want GOING", got)
	}
}

func TestPhaseTransitionSignalsSceneSwitch(t *testing.T) {
	s, d := newTestStore()

	var scenes []string
	d.Register(&events.ObserverFunc{
		Name:  "router",
		Types: []string{events.TypeSceneSwitch},
		Fn: func(ev events.Event) error {
			scenes = append(scenes, ev.Data.(string))
			return nil
		},
	})

	s.ApplyInbound(protocol.Message{GameState: strptr("WAITING_PLAYERS")})
	s.ApplyInbound(protocol.Message{GameState: strptr("GOING")})
	// Same phase again: no new switch.
	s.ApplyInbound(protocol.Message{GameState: strptr("GOING")})
	s.ApplyInbound(protocol.Message{GameState: strptr("WAITING_PLAYERS")})

	want := []string{SceneLobby, SceneGame, SceneLobby}
	if len(scenes) != len(want) {
		t.Fatalf("scene switches = %v, want %v", scenes, want)
	}
	for i := range want {
		if scenes[i] != want[i] {
			t.Errorf("scene switch %d = %q, want %q", i, scenes[i], want[i])
		}
	}
}

func TestEventSeqMonotonicallyIncreases(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{YourID: strptr("p1")})

	s.ApplyInbound(protocol.Message{Event: strptr("BUYED_p2")})
	first := s.CurrentEvent()
	if first.Kind != game.EventCardDrawn || first.Seq == 0 {
		t.Fatalf("first event = %+v", first)
	}

	// Identical payload must still get a fresh sequence number: two draws
	// of the same rank are legal.
	s.ApplyInbound(protocol.Message{Event: strptr("BUYED_p2")})
	second := s.CurrentEvent()
	if second.Seq <= first.Seq {
		t.Errorf("second.Seq = %d, want > %d", second.Seq, first.Seq)
	}
}

func TestRemoteDrawIsHidden(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{YourID: strptr("p1")})
	s.ApplyInbound(protocol.Message{Event: strptr("BUYED_p2")})

	ev := s.CurrentEvent()
	if ev.Kind != game.EventCardDrawn || ev.PlayerID != "p2" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Card == nil || ev.Card.Color != game.ColorUnknown {
		t.Errorf("remote draw face = %+v, want UNKNOWN", ev.Card)
	}
}

func TestLocalDrawRevealsFace(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{YourID: strptr("p1")})
	s.ApplyInbound(protocol.Message{State: &protocol.LocalState{Cards: []protocol.WireCard{
		{ID: "c1", Color: "RED", Num: "3"},
	}}})

	s.ApplyInbound(protocol.Message{
		Event: strptr("BUYED_p1"),
		State: &protocol.LocalState{Cards: []protocol.WireCard{
			{ID: "c1", Color: "RED", Num: "3"},
			{ID: "c9", Color: "BLUE", Num: "8"},
		}},
	})

	ev := s.CurrentEvent()
	if ev.Kind != game.EventCardDrawn || ev.PlayerID != "p1" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Card == nil || ev.Card.ID != "c9" || ev.Card.Color != game.ColorBlue {
		t.Errorf("local draw face = %+v, want c9 BLUE", ev.Card)
	}
}

func TestPlayedEventUsesDiscardTopFace(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{YourID: strptr("p1")})

	s.ApplyInbound(protocol.Message{
		Event:    strptr("PLAYED_p1_c7"),
		LastCard: &protocol.WireCard{ID: "c7", Color: "RED", Num: "5"},
	})

	ev := s.CurrentEvent()
	if ev.Kind != game.EventCardPlayed || ev.PlayerID != "p1" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Card == nil || ev.Card.ID != "c7" || ev.Card.Color != game.ColorRed || ev.Card.Rank != "5" {
		t.Errorf("played face = %+v, want c7 RED 5", ev.Card)
	}
	top := s.Snapshot().DiscardTop
	if top == nil || top.ID != "c7" {
		t.Errorf("DiscardTop = %+v, want c7", top)
	}
}

func TestTurnChangeDerivesEvent(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{Turn: strptr("p1")})
	ev := s.CurrentEvent()
	if ev.Kind != game.EventTurnChanged || ev.PlayerID != "p1" {
		t.Fatalf("event = %+v, want TURN_CHANGED p1", ev)
	}

	// Same turn repeated: no new event.
	s.ApplyInbound(protocol.Message{Turn: strptr("p1")})
	if got := s.CurrentEvent(); got.Seq != ev.Seq {
		t.Errorf("repeated turn produced new event %+v", got)
	}
}

func TestEndGamePublishesWinner(t *testing.T) {
	s, d := newTestStore()

	var winner string
	d.Register(&events.ObserverFunc{
		Name:  "banner",
		Types: []string{events.TypeGameEnded},
		Fn: func(ev events.Event) error {
			winner = ev.Data.(string)
			return nil
		},
	})

	s.ApplyInbound(protocol.Message{
		Event:  strptr("END_GAME"),
		Winner: strptr("p2"),
	})

	if winner != "p2" {
		t.Errorf("winner = %q, want p2", winner)
	}
	if ev := s.CurrentEvent(); ev.Kind != game.EventGameEnded || ev.PlayerID != "p2" {
		t.Errorf("event = %+v, want GAME_ENDED p2", ev)
	}
}

func TestMalformedEventTagIsSkipped(t *testing.T) {
	s, _ := newTestStore()
	s.ApplyInbound(protocol.Message{Event: strptr("PLAYED_oops"), Turn: strptr("p3")})

	// The bad tag is dropped but the turn field still merged, and the
	// turn change still derived an event.
	st := s.Snapshot()
	if st.TurnPlayerID != "p3" {
		t.Errorf("TurnPlayerID = %q, want p3", st.TurnPlayerID)
	}
	if ev := s.CurrentEvent(); ev.Kind != game.EventTurnChanged {
		t.Errorf("event = %+v, want TURN_CHANGED fallback", ev)
	}
}

func TestDispatchForwardsWithoutLocalMutation(t *testing.T) {
	s, _ := newTestStore()
	rec := &actionRecorder{}
	s.SetSender(rec)

	s.ApplyInbound(protocol.Message{State: &protocol.LocalState{Cards: []protocol.WireCard{
		{ID: "c1", Color: "RED", Num: "3"},
	}}})

	if err := s.Dispatch(protocol.Play("c1")); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if len(rec.sent) != 1 || rec.sent[0].Action != "PLAY_c1" {
		t.Fatalf("sent = %+v", rec.sent)
	}
	// No prediction: hand unchanged until the server answers.
	if got := len(s.Snapshot().LocalHand); got != 1 {
		t.Errorf("LocalHand size = %d after dispatch, want 1", got)
	}
}

func TestDispatchWithoutTransport(t *testing.T) {
	s, _ := newTestStore()
	if err := s.Dispatch(protocol.Buy()); err == nil {
		t.Error("Dispatch() without transport should error")
	}
}
