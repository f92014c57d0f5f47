package anim

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/AllyssinXD/card-game-web/internal/events"
	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// Animation timings, matching the reference client.
const (
	drawMoveDuration  = time.Second
	playScaleDuration = 500 * time.Millisecond
	playMoveDuration  = 500 * time.Millisecond

	playScaleFactor = 1.5

	// Turn emphasis opacities: the player gaining the turn is shown at
	// full opacity, everyone else dimmed.
	activeOpacity = 1.0
	dimmedOpacity = 0.7

	// A task whose handles have not mounted yet is retried once per tick
	// this many times before failing softly.
	defaultMaxRetries = 60
)

// SpriteFactory creates and destroys the moving card sprites the
// orchestrator animates. Implemented by the GUI layer; the orchestrator
// never touches scene nodes directly.
type SpriteFactory interface {
	// CreateCardSprite mounts a card sprite at the given position and
	// returns its handle.
	CreateCardSprite(card game.Card, x, y float32) visual.Handle

	// DestroySprite unmounts a sprite previously created by
	// CreateCardSprite.
	DestroySprite(h visual.Handle)
}

// deferred is an event whose required handles were absent at observation
// time. Task creation is retried on subsequent ticks rather than silently
// dropped.
type deferred struct {
	event    game.Event
	attempts int
}

// Orchestrator owns the active animation queue. All methods must be called
// from the UI thread; "concurrency" here is tick interleaving, not
// parallelism.
type Orchestrator struct {
	registry   *visual.Registry
	dispatcher *events.Dispatcher
	sprites    SpriteFactory
	localID    func() string

	tasks    []*Task
	deferred []deferred

	// lastSeq is the dedup watermark. Sequence numbers are monotonic, so
	// anything at or below it is a replay from an unrelated re-render
	// and must not duplicate a movement.
	lastSeq uint64

	maxRetries int

	// Queue sizes mirrored atomically so the debug API can read them
	// from outside the UI thread.
	activeCount   atomic.Int32
	deferredCount atomic.Int32
}

// NewOrchestrator creates an Orchestrator. localID resolves the local player
// id at animation time (it is unknown until the server assigns one).
func NewOrchestrator(registry *visual.Registry, dispatcher *events.Dispatcher, sprites SpriteFactory, localID func() string) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		dispatcher: dispatcher,
		sprites:    sprites,
		localID:    localID,
		maxRetries: defaultMaxRetries,
	}
}

// Observe considers a transition event for animation. Safe to call with the
// same event repeatedly: exactly one movement is scheduled per distinct
// sequence number, and stale replays are ignored silently.
func (o *Orchestrator) Observe(ev game.Event) {
	if ev.Seq == 0 || ev.Seq <= o.lastSeq {
		return
	}
	o.lastSeq = ev.Seq

	switch ev.Kind {
	case game.EventCardDrawn, game.EventCardPlayed:
		if !o.schedule(ev) {
			o.deferred = append(o.deferred, deferred{event: ev})
		}
		o.publishCounts()
	default:
		// Turn emphasis is continuous visual state handled by
		// ApplyTurnHighlight; joins and endings move no cards.
	}
}

// schedule tries to create the task for an event. Returns false when a
// required handle is not registered yet.
func (o *Orchestrator) schedule(ev game.Event) bool {
	switch ev.Kind {
	case game.EventCardDrawn:
		return o.scheduleDraw(ev)
	case game.EventCardPlayed:
		return o.schedulePlay(ev)
	default:
		return true
	}
}

// scheduleDraw animates buy-pile -> drawing player's seat. Remote draws show
// the hidden face; the local player's drawn card face is known and used.
func (o *Orchestrator) scheduleDraw(ev game.Event) bool {
	pile, ok := o.registry.Get(visual.KeyBuyPile)
	if !ok || !pile.Alive() {
		return false
	}
	seat, ok := o.registry.Get(ev.PlayerID)
	if !ok || !seat.Alive() {
		return false
	}

	face := game.HiddenCard("BUYING_" + ev.PlayerID)
	if ev.PlayerID == o.localID() && ev.Card != nil {
		face = *ev.Card
	}

	// Coordinates snapshotted synchronously; the handles are mutable
	// references and may move before the task finishes.
	ox, oy := pile.Position()
	dx, dy := seat.Position()
	o.addTask(&Task{
		Card:    face,
		OriginX: ox, OriginY: oy,
		DestX: dx, DestY: dy,
	})
	return true
}

// schedulePlay animates the played card toward the discard position. For the
// local player the specific hand-card handle is the origin when still
// registered; remote plays depart from the player's seat.
func (o *Orchestrator) schedulePlay(ev game.Event) bool {
	center, ok := o.registry.Get(visual.KeyCenter)
	if !ok || !center.Alive() {
		return false
	}
	dx, dy := center.Position()

	var (
		ox, oy    float32
		originRot float32
		sourceKey string
	)
	if ev.PlayerID == o.localID() && ev.Card != nil {
		key := visual.CardKey(ev.PlayerID, ev.Card.ID)
		if h, ok := o.registry.Get(key); ok && h.Alive() {
			ox, oy = h.Position()
			originRot = h.Rotation()
			sourceKey = key
		} else if seat, ok := o.registry.Get(ev.PlayerID); ok && seat.Alive() {
			ox, oy = seat.Position()
		} else {
			return false
		}
	} else {
		seat, ok := o.registry.Get(ev.PlayerID)
		if !ok || !seat.Alive() {
			return false
		}
		ox, oy = seat.Position()
		originRot = seat.Rotation()
	}

	face := game.HiddenCard(ev.PlayerID)
	if ev.Card != nil {
		face = *ev.Card
	}

	// Destination equals the current discard position, so this is a play:
	// scale up before translating.
	o.addTask(&Task{
		Card:    face,
		OriginX: ox, OriginY: oy,
		OriginRotation:  originRot,
		DestX:           dx,
		DestY:           dy,
		SourceHandleKey: sourceKey,
		ScaleUp:         true,
	})
	return true
}

func (o *Orchestrator) addTask(t *Task) {
	t.sprite = o.sprites.CreateCardSprite(t.Card, t.OriginX, t.OriginY)
	o.tasks = append(o.tasks, t)
}

// Tick retries deferred task creation and advances every running task. dt is
// the time since the previous tick. Must be called on the UI thread.
func (o *Orchestrator) Tick(dt time.Duration) {
	o.retryDeferred()

	remaining := o.tasks[:0]
	for _, t := range o.tasks {
		o.advance(t, dt)
		if t.state == StatePending || t.state == StateRunning {
			remaining = append(remaining, t)
		}
	}
	o.tasks = remaining
	o.publishCounts()
}

func (o *Orchestrator) retryDeferred() {
	if len(o.deferred) == 0 {
		return
	}
	still := o.deferred[:0]
	for _, d := range o.deferred {
		if o.schedule(d.event) {
			continue
		}
		d.attempts++
		if d.attempts >= o.maxRetries {
			log.Printf("[Animations] Giving up on event seq=%d kind=%s: required handles never mounted",
				d.event.Seq, d.event.Kind)
			continue
		}
		still = append(still, d)
	}
	o.deferred = still
}

// advance moves a task forward by dt. Every write re-validates sprite
// liveness: the node may have been torn down between ticks, in which case
// the task is cancelled rather than left to write into a dead handle.
func (o *Orchestrator) advance(t *Task, dt time.Duration) {
	if t.state == StatePending {
		t.transition(StateRunning)
	}
	if t.state != StateRunning {
		return
	}

	if t.sprite == nil || !t.sprite.Alive() {
		t.transition(StateCancelled)
		return
	}

	t.elapsed += dt
	total := t.duration()

	if t.ScaleUp {
		o.advancePlay(t)
	} else {
		p := easeOutQuad(clamp01(float32(t.elapsed) / float32(total)))
		t.sprite.MoveTo(lerp(t.OriginX, t.DestX, p), lerp(t.OriginY, t.DestY, p))
		t.sprite.SetRotation(lerp(t.OriginRotation, t.DestRotation, p))
	}

	if t.elapsed >= total {
		o.complete(t)
	}
}

// advancePlay drives the two-phase play animation: scale up in place, then
// translate to the discard position.
func (o *Orchestrator) advancePlay(t *Task) {
	if t.elapsed < playScaleDuration {
		p := easeInOutQuad(clamp01(float32(t.elapsed) / float32(playScaleDuration)))
		t.sprite.SetScale(lerp(1, playScaleFactor, p))
		t.sprite.MoveTo(t.OriginX, t.OriginY)
		return
	}
	t.sprite.SetScale(playScaleFactor)
	p := easeInOutQuad(clamp01(float32(t.elapsed-playScaleDuration) / float32(playMoveDuration)))
	t.sprite.MoveTo(lerp(t.OriginX, t.DestX, p), lerp(t.OriginY, t.DestY, p))
	t.sprite.SetRotation(lerp(t.OriginRotation, t.DestRotation, p))
}

// complete finishes a task: final position write, sprite teardown, source
// hand-card release, and a hand-changed notification so the hand view
// resynchronizes with the store without a redundant hard cut.
func (o *Orchestrator) complete(t *Task) {
	if !t.transition(StateDone) {
		return
	}
	if t.sprite.Alive() {
		t.sprite.MoveTo(t.DestX, t.DestY)
	}
	o.sprites.DestroySprite(t.sprite)
	if t.SourceHandleKey != "" {
		o.registry.Release(t.SourceHandleKey)
	}
	o.dispatcher.Dispatch(events.Event{Type: events.TypeHandChanged})
}

// CancelAll transitions every pending and running task to CANCELLED and
// abandons their visual side effects. No completion callback fires and no
// handle is written again. Called on reconciliation rebuild and teardown.
func (o *Orchestrator) CancelAll() {
	for _, t := range o.tasks {
		if t.transition(StateCancelled) {
			o.sprites.DestroySprite(t.sprite)
		}
	}
	o.tasks = nil
	o.deferred = nil
	o.publishCounts()
}

// ApplyTurnHighlight re-applies the continuous turn emphasis: the seat of
// the player holding the turn at full opacity, all others dimmed. Idempotent
// per state; called on every state update rather than queued per event.
func (o *Orchestrator) ApplyTurnHighlight(st game.State) {
	for _, p := range st.Players {
		seat, ok := o.registry.Get(p.ID)
		if !ok || !seat.Alive() {
			continue
		}
		if p.ID == st.TurnPlayerID {
			seat.SetOpacity(activeOpacity)
		} else {
			seat.SetOpacity(dimmedOpacity)
		}
	}
}

func (o *Orchestrator) publishCounts() {
	o.activeCount.Store(int32(len(o.tasks)))
	o.deferredCount.Store(int32(len(o.deferred)))
}

// ActiveCount returns the number of tasks in PENDING or RUNNING. Safe to
// call from any goroutine.
func (o *Orchestrator) ActiveCount() int {
	return int(o.activeCount.Load())
}

// DeferredCount returns the number of events awaiting handle mounts. Safe to
// call from any goroutine.
func (o *Orchestrator) DeferredCount() int {
	return int(o.deferredCount.Load())
}
