package gui

import (
	"errors"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/layout"
	"github.com/AllyssinXD/card-game-web/internal/protocol"
	"github.com/AllyssinXD/card-game-web/internal/state"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// Buy pile offset from the table center, matching the reference layout.
const buyPileOffsetX = float32(120)

// seatNode groups one player's fixture: name text plus, for opponents, the
// face-down card fan. The whole node dims as one unit for the turn emphasis.
type seatNode struct {
	*fyne.Container
	name  *canvas.Text
	cards []*CardSprite
}

func (n *seatNode) SetAlpha(alpha float32) {
	for _, c := range n.cards {
		c.SetAlpha(alpha)
	}
	a := uint8(255 * alpha)
	n.name.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: a}
	n.name.Refresh()
}

// localCard tracks one mounted local hand card so the hand can be rebuilt
// without touching the rest of the table.
type localCard struct {
	sprite *CardSprite
	handle *nodeHandle
	key    string
}

// GameScene renders the table: seats, hands, discard center and buy pile.
// Mounting registers every addressable node in the registry; the scene also
// acts as the orchestrator's sprite factory and the reconciliation loop's
// binding stripper.
type GameScene struct {
	win      fyne.Window
	store    *state.Store
	registry *visual.Registry

	root *fyne.Container

	sprites     []*CardSprite
	handles     []*nodeHandle
	localCards  []*localCard
	seatNodes   map[string]*seatNode
	seatHandles map[string]*nodeHandle

	centerSprite *CardSprite

	// mountedPlayers mirrors what the table was last built from, to
	// detect when a full remount is needed.
	mountedPlayers []game.Player
}

// NewGameScene creates the scene. Mount builds it.
func NewGameScene(win fyne.Window, store *state.Store, registry *visual.Registry) *GameScene {
	return &GameScene{
		win:      win,
		store:    store,
		registry: registry,
		root:     container.NewWithoutLayout(),
	}
}

// Content returns the scene's root canvas object.
func (s *GameScene) Content() fyne.CanvasObject {
	return s.root
}

// Mount builds the table from the store's current state and registers all
// handles. Idempotent through Remount.
func (s *GameScene) Mount() {
	s.buildTable()
}

// Remount clears every mounted node and rebuilds from current state. Called
// by the reconciliation loop on the deferred tick, after teardown.
func (s *GameScene) Remount() {
	s.clearNodes()
	s.buildTable()
}

// Unmount tears the scene down on exit: bindings stripped, handles killed,
// registry cleared. Animations must already be cancelled by the caller.
func (s *GameScene) Unmount() {
	s.RemoveAllBindings()
	s.registry.UnregisterAll()
	s.clearNodes()
}

// RemoveAllBindings strips pointer interaction from every mounted sprite.
// Implements reconcile.BindingStripper.
func (s *GameScene) RemoveAllBindings() {
	for _, sprite := range s.sprites {
		sprite.RemoveBindings()
	}
}

// BoundSpriteCount reports how many sprites still have interactions
// attached. Exposed for tests.
func (s *GameScene) BoundSpriteCount() int {
	n := 0
	for _, sprite := range s.sprites {
		if sprite.HasBindings() {
			n++
		}
	}
	return n
}

func (s *GameScene) clearNodes() {
	for _, h := range s.handles {
		h.kill()
	}
	s.handles = nil
	s.sprites = nil
	s.localCards = nil
	s.seatNodes = nil
	s.seatHandles = nil
	s.centerSprite = nil
	s.mountedPlayers = nil
	s.root.Objects = nil
	s.root.Refresh()
}

// mount adds an object to the scene at a center position and returns its
// handle, registering it when key is non-empty.
func (s *GameScene) mount(key string, obj fyne.CanvasObject, size fyne.Size, centerX, centerY float32) *nodeHandle {
	obj.Resize(size)
	obj.Move(fyne.NewPos(centerX-size.Width/2, centerY-size.Height/2))
	s.root.Add(obj)

	h := newNodeHandle(obj)
	s.handles = append(s.handles, h)
	if key != "" {
		s.registry.Register(key, h)
	}
	return h
}

func (s *GameScene) buildTable() {
	size := s.win.Canvas().Size()
	w, h := size.Width, size.Height
	st := s.store.Snapshot()

	if len(st.Players) == 0 {
		waiting := canvas.NewText("Waiting for game state...", color.White)
		waiting.TextSize = 24
		s.mount("", waiting, waiting.MinSize(), w/2, h/2)
		return
	}

	seats, err := layout.Compute(st.Players, s.store.LocalID(), w, h)
	if err != nil {
		if errors.Is(err, layout.ErrUnsupportedPlayerCount) {
			// Protocol mismatch with the server: the one visual
			// failure that must block rather than degrade.
			dialog.ShowError(err, s.win)
		}
		log.Printf("[GameScene] Layout failed: %v", err)
		return
	}

	// Table fixtures.
	centerFace := game.HiddenCard("center")
	if st.DiscardTop != nil {
		centerFace = *st.DiscardTop
	}
	s.centerSprite = NewCardSprite(centerFace, cardWidth)
	s.mount(visual.KeyCenter, s.centerSprite, s.centerSprite.MinSize(), w/2, h/2)
	s.sprites = append(s.sprites, s.centerSprite)

	buyPile := NewCardSprite(game.Card{ID: "buy", Color: game.ColorUnknown, Rank: "+"}, opponentCardWidth)
	buyPile.SetOnTapped(func() {
		if !s.store.CanPlay() {
			return
		}
		if err := s.store.Dispatch(protocol.Buy()); err != nil {
			log.Printf("[GameScene] Buy failed: %v", err)
		}
	})
	s.mount(visual.KeyBuyPile, buyPile, buyPile.MinSize(), w/2-buyPileOffsetX, h/2)
	s.sprites = append(s.sprites, buyPile)

	// Seats.
	s.seatNodes = make(map[string]*seatNode, len(seats))
	s.seatHandles = make(map[string]*nodeHandle, len(seats))
	localID := s.store.LocalID()
	for _, seat := range seats {
		player := st.PlayerByID(seat.PlayerID)
		if player == nil {
			continue
		}
		node, nodeSize := s.buildSeatNode(*player, seat.PlayerID == localID, w)
		h := s.mount(seat.PlayerID, node, nodeSize, seat.X, seat.Y)
		s.seatNodes[seat.PlayerID] = node
		s.seatHandles[seat.PlayerID] = h
	}

	// Local hand.
	s.buildLocalHand(st, seats)

	s.mountedPlayers = st.Players
	s.root.Refresh()
}

// buildSeatNode assembles a seat fixture. Opponents show a face-down fan
// sized by their hand count; the local seat shows just the name, since the
// real hand is mounted separately with per-card handles.
func (s *GameScene) buildSeatNode(player game.Player, isLocal bool, viewportW float32) (*seatNode, fyne.Size) {
	inner := container.NewWithoutLayout()
	node := &seatNode{Container: inner}

	nameText := player.Username
	if isLocal {
		nameText += " (You)"
	}
	if player.IsTyping {
		nameText += " ..."
	}
	node.name = canvas.NewText(nameText, color.White)
	node.name.TextSize = 16

	cardH := opponentCardWidth * cardAspect
	var fanTotal float32
	if !isLocal && player.HandSize > 0 {
		offsets, total := handOffsets(player.HandSize, opponentCardWidth, viewportW)
		fanTotal = total
		for i := 0; i < player.HandSize; i++ {
			mini := NewCardSprite(game.HiddenCard(player.ID), opponentCardWidth)
			mini.Resize(mini.MinSize())
			mini.Move(fyne.NewPos(offsets[i], 0))
			inner.Add(mini)
			node.cards = append(node.cards, mini)
		}
	}

	nameSize := node.name.MinSize()
	width := fanTotal
	if nameSize.Width > width {
		width = nameSize.Width
	}
	var nameY float32
	if len(node.cards) > 0 {
		nameY = cardH + 4
	}
	node.name.Move(fyne.NewPos((width-nameSize.Width)/2, nameY))
	inner.Add(node.name)

	height := nameY + nameSize.Height
	return node, fyne.NewSize(width, height)
}

// buildLocalHand mounts the local player's cards as individually keyed,
// tappable sprites centered on the bottom seat.
func (s *GameScene) buildLocalHand(st game.State, seats []layout.Seat) {
	localID := s.store.LocalID()
	var bottom *layout.Seat
	for i := range seats {
		if seats[i].PlayerID == localID {
			bottom = &seats[i]
			break
		}
	}
	if bottom == nil {
		return
	}

	size := s.win.Canvas().Size()
	offsets, total := handOffsets(len(st.LocalHand), cardWidth, size.Width)
	cardH := cardWidth * cardAspect
	handY := bottom.Y - cardH/2 - 30

	for i, card := range st.LocalHand {
		card := card
		sprite := NewCardSprite(card, cardWidth)
		sprite.SetHoverable(true)
		sprite.SetOnTapped(func() {
			if !s.store.CanPlay() {
				return
			}
			if err := s.store.Dispatch(protocol.Play(card.ID)); err != nil {
				log.Printf("[GameScene] Play %s failed: %v", card.ID, err)
			}
		})

		key := visual.CardKey(localID, card.ID)
		x := bottom.X - total/2 + offsets[i] + cardWidth/2
		handle := s.mount(key, sprite, sprite.MinSize(), x, handY)

		s.sprites = append(s.sprites, sprite)
		s.localCards = append(s.localCards, &localCard{sprite: sprite, handle: handle, key: key})
	}
}

// CreateCardSprite mounts a free-floating card used as an animation proxy.
// Implements anim.SpriteFactory. Proxies are not registered: the
// orchestrator owns their lifetime.
func (s *GameScene) CreateCardSprite(card game.Card, x, y float32) visual.Handle {
	sprite := NewCardSprite(card, cardWidth)
	sprite.Resize(sprite.MinSize())
	sprite.Move(fyne.NewPos(x, y))
	s.root.Add(sprite)
	s.root.Refresh()

	h := newNodeHandle(sprite)
	s.handles = append(s.handles, h)
	return h
}

// DestroySprite removes an animation proxy from the scene.
func (s *GameScene) DestroySprite(h visual.Handle) {
	nh, ok := h.(*nodeHandle)
	if !ok {
		return
	}
	nh.kill()
	s.removeHandle(nh)
	s.root.Remove(nh.obj)
	s.root.Refresh()
}

// RefreshHand rebuilds only the local hand from the store. Called when an
// animation completes so the hand reflects the post-event state.
func (s *GameScene) RefreshHand() {
	for _, lc := range s.localCards {
		lc.handle.kill()
		s.removeHandle(lc.handle)
		s.registry.Release(lc.key)
		s.root.Remove(lc.sprite)
		s.removeSprite(lc.sprite)
	}
	s.localCards = nil

	st := s.store.Snapshot()
	size := s.win.Canvas().Size()
	seats, err := layout.Compute(st.Players, s.store.LocalID(), size.Width, size.Height)
	if err != nil {
		log.Printf("[GameScene] Hand refresh skipped: %v", err)
		return
	}
	s.buildLocalHand(st, seats)
	s.root.Refresh()
}

func (s *GameScene) removeSprite(target *CardSprite) {
	for i, sprite := range s.sprites {
		if sprite == target {
			s.sprites[i] = s.sprites[len(s.sprites)-1]
			s.sprites = s.sprites[:len(s.sprites)-1]
			return
		}
	}
}

func (s *GameScene) removeHandle(target *nodeHandle) {
	for i, h := range s.handles {
		if h == target {
			s.handles[i] = s.handles[len(s.handles)-1]
			s.handles = s.handles[:len(s.handles)-1]
			return
		}
	}
}

// SyncState reports whether the mounted table must be rebuilt for a fresh
// state snapshot. Only a change in the player set qualifies: hand counts and
// the discard face drift on every draw and play, and resynchronize through
// Resync once in-flight animations settle, never by tearing the scene down
// under a task that was just scheduled.
func (s *GameScene) SyncState(st game.State) bool {
	if len(st.Players) != len(s.mountedPlayers) {
		return true
	}
	for i, p := range st.Players {
		if s.mountedPlayers[i].ID != p.ID {
			return true
		}
	}
	return false
}

// Resync settles the table on the store's current state: discard face,
// opponent fan counts, local hand. Called when an animation completes, and
// when a state update arrives with nothing in flight.
func (s *GameScene) Resync() {
	st := s.store.Snapshot()
	s.syncCenter(st)
	s.refreshSeats(st)
	s.RefreshHand()
}

// syncCenter updates the discard-top face in place. Not done on merge: the
// face changes only once the play animation has landed on the center.
func (s *GameScene) syncCenter(st game.State) {
	if s.centerSprite == nil || st.DiscardTop == nil {
		return
	}
	if s.centerSprite.Card().ID != st.DiscardTop.ID {
		s.centerSprite.UpdateCard(*st.DiscardTop)
	}
}

// refreshSeats remounts the seat fixtures whose fan size changed since the
// table was built. Replacing a seat node re-registers its key; tasks already
// in flight hold snapshotted coordinates and are unaffected.
func (s *GameScene) refreshSeats(st game.State) {
	if len(st.Players) != len(s.mountedPlayers) {
		return
	}
	size := s.win.Canvas().Size()
	seats, err := layout.Compute(st.Players, s.store.LocalID(), size.Width, size.Height)
	if err != nil {
		log.Printf("[GameScene] Seat refresh skipped: %v", err)
		return
	}

	localID := s.store.LocalID()
	changed := false
	for i, p := range st.Players {
		if p.ID == localID || p.HandSize == s.mountedPlayers[i].HandSize {
			continue
		}
		old, ok := s.seatNodes[p.ID]
		if !ok {
			continue
		}
		s.removeSeatNode(p.ID, old)
		for _, seat := range seats {
			if seat.PlayerID != p.ID {
				continue
			}
			node, nodeSize := s.buildSeatNode(p, false, size.Width)
			h := s.mount(p.ID, node, nodeSize, seat.X, seat.Y)
			s.seatNodes[p.ID] = node
			s.seatHandles[p.ID] = h
		}
		s.mountedPlayers[i].HandSize = p.HandSize
		changed = true
	}
	if changed {
		s.root.Refresh()
	}
}

func (s *GameScene) removeSeatNode(playerID string, node *seatNode) {
	if h, ok := s.seatHandles[playerID]; ok {
		h.kill()
		s.removeHandle(h)
		delete(s.seatHandles, playerID)
	}
	s.root.Remove(node)
	delete(s.seatNodes, playerID)
}
