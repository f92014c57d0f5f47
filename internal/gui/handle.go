package gui

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// alphaSetter is implemented by scene nodes that can dim themselves.
type alphaSetter interface {
	SetAlpha(alpha float32)
}

// nodeHandle adapts a fyne canvas object to visual.Handle. All positioned
// nodes live in one absolute-coordinate layer, so the object position is the
// scene-global position.
//
// Rotation is tracked but not rendered: the widget toolkit has no canvas
// object rotation. Keeping it in the handle preserves animation math and the
// registry contract.
type nodeHandle struct {
	mu sync.Mutex

	obj      fyne.CanvasObject
	baseSize fyne.Size

	// x, y is the logical unscaled top-left. The rendered object is
	// offset by half the size delta so scaling keeps the card center
	// fixed.
	x, y float32

	rotation float32
	scale    float32
	alive    bool
}

func newNodeHandle(obj fyne.CanvasObject) *nodeHandle {
	p := obj.Position()
	return &nodeHandle{
		obj:      obj,
		baseSize: obj.Size(),
		x:        p.X,
		y:        p.Y,
		scale:    1,
		alive:    true,
	}
}

func (h *nodeHandle) Position() (float32, float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.x, h.y
}

// place positions the object so the scaled box shares its center with the
// unscaled one at the logical position.
func (h *nodeHandle) place() {
	dx := h.baseSize.Width * (h.scale - 1) / 2
	dy := h.baseSize.Height * (h.scale - 1) / 2
	h.obj.Move(fyne.NewPos(h.x-dx, h.y-dy))
}

func (h *nodeHandle) Rotation() float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rotation
}

func (h *nodeHandle) MoveTo(x, y float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive {
		return
	}
	h.x, h.y = x, y
	h.place()
}

func (h *nodeHandle) SetRotation(rad float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rotation = rad
}

func (h *nodeHandle) SetScale(factor float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive || factor == h.scale {
		return
	}
	h.scale = factor
	h.obj.Resize(fyne.NewSize(h.baseSize.Width*factor, h.baseSize.Height*factor))
	h.place()
}

func (h *nodeHandle) SetOpacity(alpha float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.alive {
		return
	}
	if setter, ok := h.obj.(alphaSetter); ok {
		setter.SetAlpha(alpha)
	}
}

func (h *nodeHandle) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

// kill marks the handle dead. Later writes become no-ops and the animation
// layer cancels any task still holding the handle.
func (h *nodeHandle) kill() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alive = false
}

var _ visual.Handle = (*nodeHandle)(nil)
