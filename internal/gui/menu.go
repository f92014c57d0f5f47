package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MenuScene asks for a username before joining the room.
type MenuScene struct {
	entry   *widget.Entry
	content fyne.CanvasObject
}

// NewMenuScene builds the entry view. onJoin fires with the chosen name.
func NewMenuScene(defaultName string, onJoin func(username string)) *MenuScene {
	s := &MenuScene{}

	title := widget.NewLabel("Card Game")
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	s.entry = widget.NewEntry()
	s.entry.SetPlaceHolder("Username")
	s.entry.SetText(defaultName)

	join := widget.NewButton("Join", func() {
		name := strings.TrimSpace(s.entry.Text)
		if name == "" {
			return
		}
		onJoin(name)
	})
	s.entry.OnSubmitted = func(string) { join.OnTapped() }

	s.content = container.NewCenter(container.NewVBox(title, s.entry, join))
	return s
}

// Content returns the scene's root canvas object.
func (s *MenuScene) Content() fyne.CanvasObject {
	return s.content
}
