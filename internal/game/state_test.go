package game

import "testing"

func TestParseColorFallsBackToUnknown(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"RED", ColorRed},
		{"BLUE", ColorBlue},
		{"GREEN", ColorGreen},
		{"YELLOW", ColorYellow},
		{"PURPLE", ColorUnknown},
		{"", ColorUnknown},
		{"red", ColorUnknown},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePhaseRejectsUnknown(t *testing.T) {
	if _, ok := ParsePhase("PAUSED"); ok {
		t.Error("ParsePhase should reject values the client does not know")
	}
	if phase, ok := ParsePhase("GOING"); !ok || phase != PhaseInProgress {
		t.Errorf("ParsePhase(GOING) = %v, %v", phase, ok)
	}
}

func TestHiddenCard(t *testing.T) {
	c := HiddenCard("c1")
	if c.ID != "c1" || c.Color != ColorUnknown || c.Rank != "?" {
		t.Errorf("HiddenCard = %+v", c)
	}
}

func TestCloneIsDeep(t *testing.T) {
	top := Card{ID: "c1", Color: ColorRed, Rank: "5"}
	s := State{
		Phase:        PhaseInProgress,
		TurnPlayerID: "p1",
		Players:      []Player{{ID: "p1"}, {ID: "p2"}},
		DiscardTop:   &top,
		LocalHand:    []Card{{ID: "c2", Color: ColorBlue, Rank: "3"}},
	}

	clone := s.Clone()
	clone.Players[0].ID = "mutated"
	clone.DiscardTop.ID = "mutated"
	clone.LocalHand[0].ID = "mutated"

	if s.Players[0].ID != "p1" {
		t.Error("clone shares the players slice")
	}
	if s.DiscardTop.ID != "c1" {
		t.Error("clone shares the discard top")
	}
	if s.LocalHand[0].ID != "c2" {
		t.Error("clone shares the hand slice")
	}
}

func TestPlayerByIDAndSeatIndex(t *testing.T) {
	s := State{Players: []Player{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}}

	if p := s.PlayerByID("p2"); p == nil || p.ID != "p2" {
		t.Errorf("PlayerByID(p2) = %+v", p)
	}
	if p := s.PlayerByID("nope"); p != nil {
		t.Errorf("PlayerByID(nope) = %+v, want nil", p)
	}
	if idx := s.SeatIndex("p3"); idx != 2 {
		t.Errorf("SeatIndex(p3) = %d, want 2", idx)
	}
	if idx := s.SeatIndex("nope"); idx != -1 {
		t.Errorf("SeatIndex(nope) = %d, want -1", idx)
	}
}
