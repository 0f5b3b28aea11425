// Package timing provides the simulated clock, the future event queue and
// the engine that dispatches events one at a time.
package timing

import "github.com/sarchlab/queuesim/sim/hooking"

// VTimeInMin is a point in simulated time, counted in minutes.
type VTimeInMin float64

// A Handler reacts to the events scheduled for it. Payloads are plain data;
// handlers switch on their type.
type Handler interface {
	Handle(payload any) error
}

// An Event is a payload due at a point in simulated time.
type Event struct {
	// Payload is delivered to the handler untouched.
	Payload any

	// Time is when the event is due.
	Time VTimeInMin

	// Handler receives the payload.
	Handler Handler

	seq uint64
}

// Sequence returns the scheduling order of the event. Events due at the same
// time are dispatched in increasing sequence.
func (e *Event) Sequence() uint64 {
	return e.seq
}

// before reports whether e is dispatched ahead of o.
func (e *Event) before(o *Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}

	return e.seq < o.seq
}

// HookPosBeforeEvent fires right before an event is handled.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires right after an event is handled.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}
