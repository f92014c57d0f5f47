package gui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/AllyssinXD/card-game-web/internal/protocol"
	"github.com/AllyssinXD/card-game-web/internal/state"
)

// LobbyScene shows the connected players while the room waits to start.
// The first seated player owns the Start button.
type LobbyScene struct {
	store *state.Store

	playerList *widget.Label
	startBtn   *widget.Button
	content    fyne.CanvasObject
}

// NewLobbyScene builds the lobby view.
func NewLobbyScene(store *state.Store) *LobbyScene {
	s := &LobbyScene{store: store}

	title := widget.NewLabel("Waiting for players")
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	s.playerList = widget.NewLabel("")
	s.playerList.Alignment = fyne.TextAlignCenter

	s.startBtn = widget.NewButton("Start Game", func() {
		if err := s.store.Dispatch(protocol.StartGame()); err != nil {
			log.Printf("[Lobby] Start failed: %v", err)
		}
	})
	s.startBtn.Hide()

	s.content = container.NewCenter(container.NewVBox(title, s.playerList, s.startBtn))
	s.Refresh()
	return s
}

// Content returns the scene's root canvas object.
func (s *LobbyScene) Content() fyne.CanvasObject {
	return s.content
}

// Refresh re-renders the player list from the store. Only the room owner
// (first seated player) can start the game.
func (s *LobbyScene) Refresh() {
	st := s.store.Snapshot()

	text := ""
	for i, p := range st.Players {
		name := p.Username
		if p.ID == s.store.LocalID() {
			name += " (You)"
		}
		text += fmt.Sprintf("%d. %s\n", i+1, name)
	}
	if text == "" {
		text = "Connecting..."
	}
	s.playerList.SetText(text)

	owner := len(st.Players) > 0 && st.Players[0].ID == s.store.LocalID()
	if owner && len(st.Players) >= 2 {
		s.startBtn.Show()
	} else {
		s.startBtn.Hide()
	}
}
