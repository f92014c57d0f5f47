// Package protocol defines the JSON wire format spoken with the game server
// and the parsing of its string-tagged events into a typed form.
//
// Inbound messages are partial: every top-level field is optional and absent
// fields leave the corresponding client state untouched. Pointer fields make
// that presence information explicit for the merge in the state store.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/AllyssinXD/card-game-web/internal/game"
)

// WireCard is a card as the server serializes it.
type WireCard struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Num   string `json:"num"`
}

// Card converts a wire card to the domain type. Unrecognized colors decode
// as UNKNOWN rather than failing the whole message.
func (w WireCard) Card() game.Card {
	return game.Card{ID: w.ID, Color: game.ParseColor(w.Color), Rank: w.Num}
}

// WirePlayer is one entry of the server's players list.
type WirePlayer struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	CardsLength int    `json:"cardsLength"`
	IsTyping    bool   `json:"isTyping"`
}

// Player converts a wire player to the domain type.
func (w WirePlayer) Player() game.Player {
	return game.Player{ID: w.ID, Username: w.Username, HandSize: w.CardsLength, IsTyping: w.IsTyping}
}

// LocalState carries fields scoped to this client only.
type LocalState struct {
	Cards []WireCard `json:"cards"`
}

// Message is a server push. All fields are optional; nil means "not present
// in this message", which the merge treats as "unchanged".
type Message struct {
	YourID    *string       `json:"yourId,omitempty"`
	Event     *string       `json:"event,omitempty"`
	GameState *string       `json:"gameState,omitempty"`
	Turn      *string       `json:"turn,omitempty"`
	Players   *[]WirePlayer `json:"players,omitempty"`
	LastCard  *WireCard     `json:"lastCard,omitempty"`
	State     *LocalState   `json:"state,omitempty"`
	Winner    *string       `json:"winner,omitempty"`
}

// Decode unmarshals a raw inbound frame. Unknown keys are ignored; the server
// is free to send fields this client does not consume.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode server message: %w", err)
	}
	return m, nil
}

// Action is an outbound command. The server accepts exactly the shape
// {"action": "..."} with no other fields.
type Action struct {
	Action string `json:"action"`
}

// StartGame requests the match start. Only honored by the server when sent
// by the first-seated player.
func StartGame() Action { return Action{Action: "START_GAME"} }

// Buy requests drawing a card from the buy pile.
func Buy() Action { return Action{Action: "BUY"} }

// Play requests playing the identified card from the local hand.
func Play(cardID string) Action { return Action{Action: "PLAY_" + cardID} }

// Encode serializes an action for the wire.
func (a Action) Encode() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode action %q: %w", a.Action, err)
	}
	return data, nil
}
