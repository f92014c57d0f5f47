// Package layout computes seat placement around the table. It is a pure
// function of the player list and viewport size; resize handling is simply
// calling it again.
package layout

import (
	"errors"
	"fmt"

	"github.com/AllyssinXD/card-game-web/internal/game"
)

// Orientation tags which table edge a seat sits on.
type Orientation string

const (
	Bottom   Orientation = "BOTTOM"
	Top      Orientation = "TOP"
	Left     Orientation = "LEFT"
	Right    Orientation = "RIGHT"
	TopLeft  Orientation = "TOP_LEFT"
	TopRight Orientation = "TOP_RIGHT"
)

// Seat is a resolved position for one player. X and Y are absolute viewport
// coordinates, produced from fractional tables so any viewport size works.
type Seat struct {
	PlayerID    string
	X, Y        float32
	Orientation Orientation
}

// ErrUnsupportedPlayerCount is returned for player counts outside 2..5. This
// indicates a server/client protocol mismatch and must surface to the user,
// unlike the soft visual failures elsewhere in the client.
var ErrUnsupportedPlayerCount = errors.New("unsupported player count")

// ErrLocalPlayerMissing is returned when the local id is not in the player
// list; seats cannot be rotated without an anchor.
var ErrLocalPlayerMissing = errors.New("local player not in player list")

type seatSpec struct {
	fx, fy      float32
	orientation Orientation
}

// Seat tables per player count, clockwise from the local player's bottom
// seat. Fractions of the viewport, tuned against the reference table sizes.
var seatTables = map[int][]seatSpec{
	2: {
		{0.5, 0.92, Bottom},
		{0.5, 0.12, Top},
	},
	3: {
		{0.5, 0.95, Bottom},
		{0.2, 0.14, TopLeft},
		{0.8, 0.14, TopRight},
	},
	4: {
		{0.5, 0.95, Bottom},
		{0.92, 0.5, Right},
		{0.5, 0.06, Top},
		{0.08, 0.5, Left},
	},
	5: {
		{0.5, 0.92, Bottom},
		{0.05, 0.5, Left},
		{0.27, 0.14, TopLeft},
		{0.73, 0.14, TopRight},
		{0.95, 0.5, Right},
	},
}

// Compute assigns one seat per player. The list is rotated so the local
// player occupies index 0 (always the BOTTOM seat); the rest keep their
// server seating order clockwise around the table.
func Compute(players []game.Player, localID string, width, height float32) ([]Seat, error) {
	table, ok := seatTables[len(players)]
	if !ok {
		return nil, fmt.Errorf("%w: %d players", ErrUnsupportedPlayerCount, len(players))
	}

	localIdx := -1
	for i := range players {
		if players[i].ID == localID {
			localIdx = i
			break
		}
	}
	if localIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrLocalPlayerMissing, localID)
	}

	seats := make([]Seat, len(players))
	for i := range players {
		p := players[(localIdx+i)%len(players)]
		spec := table[i]
		seats[i] = Seat{
			PlayerID:    p.ID,
			X:           spec.fx * width,
			Y:           spec.fy * height,
			Orientation: spec.orientation,
		}
	}
	return seats, nil
}
