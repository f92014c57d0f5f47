// Package events implements the observer-pattern dispatch used to decouple
// the state store from the visual layer. The store publishes domain events;
// the screen router, animation orchestrator and debug surfaces subscribe.
package events

import (
	"log"
	"sync"
)

// Event types published by the client.
const (
	// TypeSceneSwitch is published on a phase transition; Data is the
	// target scene name ("Lobby" or "Game").
	TypeSceneSwitch = "scene:switch"

	// TypeStateUpdated is published after every inbound merge; Data is a
	// game.State clone.
	TypeStateUpdated = "state:updated"

	// TypeHandChanged asks the hand view to resynchronize with the
	// store's local hand. Published when a card animation completes so
	// the next render reflects the post-event hand without a hard cut.
	TypeHandChanged = "hand:changed"

	// TypeGameEnded is published with the winner id as Data.
	TypeGameEnded = "game:ended"
)

// Event is a domain event delivered to observers.
type Event struct {
	Type string
	Data any
}

// Observer receives dispatched events. Implementations filter the event
// types they care about via ShouldHandle.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// GetName returns a human-readable name for logging.
	GetName() string

	// ShouldHandle returns true if this observer wants the event type.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to registered observers. Thread-safe; in
// practice everything runs on the UI thread but the network read pump may
// dispatch from its own goroutine.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{observers: make([]Observer, 0)}
}

// Register adds an observer.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[Dispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer. No-op if it was never registered.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Printf("[Dispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. An
// observer error is logged and does not stop delivery to the rest.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[Dispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers. Tests use this
// to assert that teardown leaves no dangling listeners.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
	log.Printf("[Dispatcher] Cleared all observers")
}

// ObserverFunc adapts a function to the Observer interface, filtered to a
// fixed set of event types (empty means all).
type ObserverFunc struct {
	Name  string
	Types []string
	Fn    func(Event) error
}

func (o *ObserverFunc) OnEvent(event Event) error { return o.Fn(event) }

func (o *ObserverFunc) GetName() string { return o.Name }

func (o *ObserverFunc) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
