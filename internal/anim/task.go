// Package anim converts transition events into time-bounded card movements
// and advances them once per render tick. Each movement is an explicit state
// machine rather than a callback chain, so cancellation can never race a
// completion callback.
package anim

import (
	"time"

	"github.com/AllyssinXD/card-game-web/internal/game"
	"github.com/AllyssinXD/card-game-web/internal/visual"
)

// TaskState is the lifecycle state of an animation task.
type TaskState int

const (
	StatePending TaskState = iota
	StateRunning
	StateDone
	StateCancelled
)

func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "INVALID"
	}
}

// Task is one in-flight card movement. Created when a transition event
// implies a card's position must change; removed from the active queue on
// DONE or CANCELLED. DONE and CANCELLED are terminal: a task never re-enters
// RUNNING.
type Task struct {
	Card game.Card

	OriginX, OriginY float32
	OriginRotation   float32
	DestX, DestY     float32
	DestRotation     float32

	// SourceHandleKey is the registry key of the hand card this task
	// visually departs from, released on completion. Empty for draws and
	// remote plays.
	SourceHandleKey string

	// ScaleUp marks a play (destination equals the discard position):
	// the card scales up before translating, to visually emphasize plays
	// over draws.
	ScaleUp bool

	state   TaskState
	elapsed time.Duration

	// sprite is the moving card representation, owned by this task from
	// creation until DONE or CANCELLED.
	sprite visual.Handle
}

// State returns the task's current lifecycle state.
func (t *Task) State() TaskState {
	return t.state
}

// transition enforces the one-way state machine. Illegal transitions are
// ignored; in particular nothing revives a DONE or CANCELLED task.
func (t *Task) transition(to TaskState) bool {
	switch {
	case t.state == to:
		return false
	case t.state == StateDone || t.state == StateCancelled:
		return false
	case t.state == StatePending && to == StateRunning:
	case t.state == StatePending && to == StateCancelled:
	case t.state == StateRunning && to == StateDone:
	case t.state == StateRunning && to == StateCancelled:
	default:
		return false
	}
	t.state = to
	return true
}

// duration returns the total animation time for this task. Plays spend an
// emphasis phase scaling up before the translate; draws are a single eased
// move.
func (t *Task) duration() time.Duration {
	if t.ScaleUp {
		return playScaleDuration + playMoveDuration
	}
	return drawMoveDuration
}
