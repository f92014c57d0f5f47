package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/AllyssinXD/card-game-web/internal/game"
)

// Card geometry. Opponents' face-down cards render at half width.
const (
	cardWidth         = float32(100)
	opponentCardWidth = float32(50)
	cardAspect        = float32(1.4)

	hoverLift = float32(10)
)

// cardFill returns the face color for a card color.
func cardFill(c game.Color) color.NRGBA {
	switch c {
	case game.ColorBlue:
		return color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}
	case game.ColorGreen:
		return color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
	case game.ColorYellow:
		return color.NRGBA{R: 0xfa, G: 0xcc, B: 0x15, A: 0xff}
	case game.ColorRed:
		return color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	default:
		return color.NRGBA{R: 0x52, G: 0x52, B: 0x52, A: 0xff}
	}
}

// CardSprite draws one card: rounded rectangle, rank in the corners and
// center. Tappable and hoverable; both bindings are removable so teardown
// can strip listeners before handles are unregistered.
type CardSprite struct {
	widget.BaseWidget

	card  game.Card
	width float32

	// onTapped is nil when the card is not interactive. Cleared by
	// RemoveBindings.
	onTapped func()

	// hoverable cards lift slightly on pointer enter.
	hoverable bool
	hovered   bool

	// alpha dims the whole sprite, for the turn emphasis.
	alpha float32

	shadow     *canvas.Rectangle
	bg         *canvas.Rectangle
	rankTop    *canvas.Text
	rankCenter *canvas.Text
	rankBottom *canvas.Text
}

var _ fyne.Tappable = (*CardSprite)(nil)
var _ desktop.Hoverable = (*CardSprite)(nil)

// NewCardSprite creates a sprite for the given card face.
func NewCardSprite(card game.Card, width float32) *CardSprite {
	s := &CardSprite{
		card:  card,
		width: width,
		alpha: 1,
	}
	s.shadow = canvas.NewRectangle(color.NRGBA{A: 0x33})
	s.shadow.CornerRadius = 6

	s.bg = canvas.NewRectangle(cardFill(card.Color))
	s.bg.StrokeColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	s.bg.StrokeWidth = 4
	s.bg.CornerRadius = 8

	s.rankTop = canvas.NewText(card.Rank, color.White)
	s.rankCenter = canvas.NewText(card.Rank, color.White)
	s.rankBottom = canvas.NewText(card.Rank, color.White)
	s.rankTop.TextSize = width * 0.2
	s.rankCenter.TextSize = width * 0.65
	s.rankBottom.TextSize = width * 0.2

	s.ExtendBaseWidget(s)
	return s
}

// Card returns the face this sprite shows.
func (s *CardSprite) Card() game.Card {
	return s.card
}

// UpdateCard swaps the face in place, keeping position and bindings. Used by
// the discard-top display.
func (s *CardSprite) UpdateCard(card game.Card) {
	s.card = card
	s.bg.FillColor = cardFill(card.Color)
	s.rankTop.Text = card.Rank
	s.rankCenter.Text = card.Rank
	s.rankBottom.Text = card.Rank
	s.SetAlpha(s.alpha)
}

// SetOnTapped binds (or clears) the tap action.
func (s *CardSprite) SetOnTapped(fn func()) {
	s.onTapped = fn
}

// SetHoverable enables the hover lift for local hand cards.
func (s *CardSprite) SetHoverable(enabled bool) {
	s.hoverable = enabled
}

// RemoveBindings strips every interaction from the sprite.
func (s *CardSprite) RemoveBindings() {
	s.onTapped = nil
	s.hoverable = false
}

// HasBindings reports whether any interaction is still attached.
func (s *CardSprite) HasBindings() bool {
	return s.onTapped != nil || s.hoverable
}

// SetAlpha dims or restores the sprite. Used for the turn emphasis.
func (s *CardSprite) SetAlpha(alpha float32) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	s.alpha = alpha
	fill := cardFill(s.card.Color)
	fill.A = uint8(float32(fill.A) * alpha)
	s.bg.FillColor = fill
	textA := uint8(255 * alpha)
	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: textA}
	s.rankTop.Color = textColor
	s.rankCenter.Color = textColor
	s.rankBottom.Color = textColor
	s.Refresh()
}

// Tapped implements fyne.Tappable.
func (s *CardSprite) Tapped(_ *fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped()
	}
}

// MouseIn implements desktop.Hoverable: lift the card slightly.
func (s *CardSprite) MouseIn(_ *desktop.MouseEvent) {
	if !s.hoverable || s.hovered {
		return
	}
	s.hovered = true
	p := s.Position()
	s.Move(fyne.NewPos(p.X, p.Y-hoverLift))
}

// MouseMoved implements desktop.Hoverable.
func (s *CardSprite) MouseMoved(_ *desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable: settle back down.
func (s *CardSprite) MouseOut() {
	if !s.hovered {
		return
	}
	s.hovered = false
	p := s.Position()
	s.Move(fyne.NewPos(p.X, p.Y+hoverLift))
}

// MinSize reports the natural card size.
func (s *CardSprite) MinSize() fyne.Size {
	return fyne.NewSize(s.width, s.width*cardAspect)
}

// CreateRenderer implements fyne.Widget.
func (s *CardSprite) CreateRenderer() fyne.WidgetRenderer {
	return &cardRenderer{sprite: s}
}

type cardRenderer struct {
	sprite *CardSprite
}

func (r *cardRenderer) Objects() []fyne.CanvasObject {
	s := r.sprite
	return []fyne.CanvasObject{s.shadow, s.bg, s.rankTop, s.rankCenter, s.rankBottom}
}

func (r *cardRenderer) Layout(size fyne.Size) {
	s := r.sprite

	s.shadow.Move(fyne.NewPos(3, 3))
	s.shadow.Resize(size)
	s.bg.Move(fyne.NewPos(0, 0))
	s.bg.Resize(size)

	topSize := s.rankTop.MinSize()
	s.rankTop.Move(fyne.NewPos(size.Width*0.1, size.Height*0.05))

	centerSize := s.rankCenter.MinSize()
	s.rankCenter.Move(fyne.NewPos(
		(size.Width-centerSize.Width)/2,
		(size.Height-centerSize.Height)/2,
	))

	bottomSize := s.rankBottom.MinSize()
	s.rankBottom.Move(fyne.NewPos(
		size.Width*0.9-bottomSize.Width,
		size.Height*0.95-topSize.Height,
	))
}

func (r *cardRenderer) MinSize() fyne.Size {
	return r.sprite.MinSize()
}

func (r *cardRenderer) Refresh() {
	for _, obj := range r.Objects() {
		obj.Refresh()
	}
}

func (r *cardRenderer) Destroy() {}
