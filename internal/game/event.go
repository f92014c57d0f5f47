package game

// EventKind discriminates the transition-event union.
type EventKind int

const (
	EventNone EventKind = iota
	EventPlayerJoined
	EventGameStarted
	EventCardPlayed
	EventCardDrawn
	EventTurnChanged
	EventGameEnded
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "NONE"
	case EventPlayerJoined:
		return "PLAYER_JOINED"
	case EventGameStarted:
		return "GAME_STARTED"
	case EventCardPlayed:
		return "CARD_PLAYED"
	case EventCardDrawn:
		return "CARD_DRAWN"
	case EventTurnChanged:
		return "TURN_CHANGED"
	case EventGameEnded:
		return "GAME_ENDED"
	default:
		return "UNKNOWN"
	}
}

// Event is a discrete state transition derived at the network boundary. Seq
// is assigned by the store and increases monotonically; consumers key
// idempotence on Seq, never on payload equality, because duplicate payloads
// are legal (two draws of the same rank look identical).
type Event struct {
	Seq  uint64
	Kind EventKind

	// PlayerID is the acting player for CARD_PLAYED, CARD_DRAWN and
	// TURN_CHANGED, and the winner for GAME_ENDED.
	PlayerID string

	// Card is the played card for CARD_PLAYED, and the drawn card for a
	// local CARD_DRAWN. For a remote draw the face is hidden and Card is
	// a HiddenCard placeholder.
	Card *Card
}
