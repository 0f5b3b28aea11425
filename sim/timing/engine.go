package timing

import "github.com/sarchlab/queuesim/sim/hooking"

// TimeTeller tells the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInMin
}

// EventScheduler schedules events relative to the current time.
type EventScheduler interface {
	TimeTeller

	// Schedule queues payload for handler at CurrentTime()+delay. A negative
	// delay is an InvariantViolation.
	Schedule(delay VTimeInMin, handler Handler, payload any)
}

// An Engine keeps a discrete event simulation running.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run dispatches events until none are left.
	Run() error

	// RunUntil dispatches events due no later than horizon. Events due after
	// the horizon are discarded.
	RunUntil(horizon VTimeInMin) error

	// Pending returns the number of queued events.
	Pending() int

	// Discarded returns how many events were dropped by the horizon.
	Discarded() int

	// Pause blocks dispatching until Continue is called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// Paused reports whether Pause is in effect.
	Paused() bool
}
