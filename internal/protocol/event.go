package protocol

import "strings"

// EventTag is the typed form of the server's string-tagged event field.
// Parsing happens once here at the ingestion boundary; no other package
// splits event strings.
type EventTag struct {
	Kind     EventTagKind
	PlayerID string
	CardID   string
}

// EventTagKind enumerates the event tags the server emits.
type EventTagKind int

const (
	TagPlayerEntered EventTagKind = iota
	TagEndGame
	TagPlayed
	TagBuyed
)

// Fixed event tags.
const (
	eventPlayerEntered = "PLAYER_ENTERED"
	eventEndGame       = "END_GAME"
	prefixPlayed       = "PLAYED_"
	prefixBuyed        = "BUYED_"
)

// ParseEventTag parses the wire event string. The parametrized forms are
// "PLAYED_<playerId>_<cardId>" and "BUYED_<playerId>". Returns ok=false for
// anything malformed or unknown; callers log and move on, a bad tag never
// fails the surrounding message.
func ParseEventTag(s string) (EventTag, bool) {
	switch {
	case s == eventPlayerEntered:
		return EventTag{Kind: TagPlayerEntered}, true
	case s == eventEndGame:
		return EventTag{Kind: TagEndGame}, true
	case strings.HasPrefix(s, prefixPlayed):
		rest := strings.TrimPrefix(s, prefixPlayed)
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return EventTag{}, false
		}
		return EventTag{Kind: TagPlayed, PlayerID: parts[0], CardID: parts[1]}, true
	case strings.HasPrefix(s, prefixBuyed):
		rest := strings.TrimPrefix(s, prefixBuyed)
		if rest == "" {
			return EventTag{}, false
		}
		return EventTag{Kind: TagBuyed, PlayerID: rest}, true
	default:
		return EventTag{}, false
	}
}
