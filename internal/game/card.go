// Package game defines the client-side data model for a running card game:
// cards, players, the authoritative game state pushed by the server, and the
// discrete transition events derived from state changes.
//
// Everything here is plain data. The server owns the rules; the client never
// derives game-legal moves beyond "is it my turn".
package game

// Color is a card color. Opponents' cards are observed as ColorUnknown until
// a play or draw event reveals them.
type Color string

const (
	ColorRed     Color = "RED"
	ColorBlue    Color = "BLUE"
	ColorGreen   Color = "GREEN"
	ColorYellow  Color = "YELLOW"
	ColorUnknown Color = "UNKNOWN"
)

// ParseColor maps a wire color string to a Color. Anything unrecognized is
// treated as UNKNOWN rather than an error; the server may add colors the
// client does not know how to tint yet.
func ParseColor(s string) Color {
	switch Color(s) {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow:
		return Color(s)
	default:
		return ColorUnknown
	}
}

// Card is a single observed card. Identity is ID; a card is immutable once
// observed. Rank is kept as a string because the server sends non-numeric
// ranks for special cards.
type Card struct {
	ID    string
	Color Color
	Rank  string
}

// HiddenCard returns the face-down placeholder used when a card's face is not
// visible to this client (opponents' hands, remote draws).
func HiddenCard(id string) Card {
	return Card{ID: id, Color: ColorUnknown, Rank: "?"}
}
