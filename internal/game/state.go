package game

// Player is one seat at the table as the server describes it. HandSize is the
// only information the client has about an opponent's hand; face-down cards
// are not individually addressable until revealed by a play or draw event.
type Player struct {
	ID       string
	Username string
	HandSize int
	IsTyping bool
}

// Phase is the coarse lifecycle of a session.
type Phase string

const (
	PhaseWaitingPlayers Phase = "WAITING_PLAYERS"
	PhaseInProgress     Phase = "GOING"
)

// ParsePhase maps a wire gameState string to a Phase. Unknown values return
// ok=false and the caller leaves the current phase untouched.
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseWaitingPlayers, PhaseInProgress:
		return Phase(s), true
	default:
		return "", false
	}
}

// State is the canonical game state as last merged from the server. Players
// are in server-assigned seating order, not display order; the layout engine
// rotates them so the local player sits at the bottom.
type State struct {
	Phase        Phase
	TurnPlayerID string
	Players      []Player
	DiscardTop   *Card
	LocalHand    []Card
}

// PlayerByID returns the player with the given id, or nil.
func (s *State) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// SeatIndex returns the server seating index of the given player, or -1.
func (s *State) SeatIndex(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. The store hands clones to observers so that a
// later merge cannot mutate state a consumer is still reading.
func (s *State) Clone() State {
	out := State{
		Phase:        s.Phase,
		TurnPlayerID: s.TurnPlayerID,
	}
	if s.Players != nil {
		out.Players = make([]Player, len(s.Players))
		copy(out.Players, s.Players)
	}
	if s.DiscardTop != nil {
		c := *s.DiscardTop
		out.DiscardTop = &c
	}
	if s.LocalHand != nil {
		out.LocalHand = make([]Card, len(s.LocalHand))
		copy(out.LocalHand, s.LocalHand)
	}
	return out
}
