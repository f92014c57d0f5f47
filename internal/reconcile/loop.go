// Package reconcile orchestrates the full teardown and deferred rebuild of
// the visual state. Handle registration happens as a side effect of
// scene-node mounting, which is asynchronous relative to state changes, so
// the rebuild cannot run synchronously from the update that triggered the
// teardown: it is scheduled for a later tick.
package reconcile

import (
	"log"

	"github.com/AllyssinXD/card-game-web/internal/anim"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// Rebuild reasons, for logging.
const (
	ReasonResize       = "viewport-resize"
	ReasonSceneReentry = "scene-reentry"
	ReasonManualReload = "manual-reload"
	ReasonStateDrift   = "state-drift"
)

// BindingStripper removes every pointer-interaction binding from the
// registered handles. Implemented by the GUI layer; stripping before
// unregistration is what prevents leaked listeners.
type BindingStripper interface {
	RemoveAllBindings()
}

// Loop ties teardown and rebuild together. All methods run on the UI thread.
type Loop struct {
	orch     *anim.Orchestrator
	registry *visual.Registry
	bindings BindingStripper

	// schedule defers a continuation to a later tick, after the scene
	// tree has re-mounted and re-registered its handles.
	schedule func(func())

	// rebuild recomputes the layout and restores the local hand display
	// from the store's current state.
	rebuild func()

	pending bool
}

// NewLoop creates a reconciliation loop. schedule must run its argument on
// the UI thread on a later tick; rebuild re-mounts the scene from current
// store state.
func NewLoop(orch *anim.Orchestrator, registry *visual.Registry, bindings BindingStripper, schedule func(func()), rebuild func()) *Loop {
	return &Loop{
		orch:     orch,
		registry: registry,
		bindings: bindings,
		schedule: schedule,
		rebuild:  rebuild,
	}
}

// Rebuild tears down all visual state and schedules the deferred rebuild.
// Triggered by viewport resize, scene re-entry or manual reload. Safe to
// re-trigger while a rebuild is already pending: teardown re-runs (it is
// idempotent) but only one rebuild is scheduled.
func (l *Loop) Rebuild(reason string) {
	log.Printf("[Reconcile] Tearing down visual state (%s)", reason)

	// Phase one, synchronous: anything that could write into a handle
	// after unregistration must die first.
	l.orch.CancelAll()
	l.bindings.RemoveAllBindings()
	l.registry.UnregisterAll()

	if l.pending {
		return
	}
	l.pending = true

	// Phase two, deferred: the scene tree re-mounts and re-registers its
	// handles before layout is recomputed.
	l.schedule(func() {
		l.pending = false
		l.rebuild()
		log.Printf("[Reconcile] Rebuild complete (%s)", reason)
	})
}

// Pending reports whether a rebuild is currently scheduled.
func (l *Loop) Pending() bool {
	return l.pending
}
