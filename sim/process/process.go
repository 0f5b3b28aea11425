// Package process runs cooperative processes on top of a timing engine.
//
// A process is a chain of continuations. Each continuation runs to
// completion and ends by suspending the process (Timeout, or a resource wait
// through Wait), or by returning without suspending, which terminates the
// process. Processes are resumed only by events dispatched by the engine, so
// at any instant exactly one continuation runs.
package process

import (
	"fmt"

	"github.com/sarchlab/queuesim/sim/timing"
)

// State is the lifecycle state of a process.
type State int

// The states a process moves through.
const (
	Runnable State = iota
	WaitingTimeout
	WaitingResource
	Terminated
)

func (s State) String() string {
	switch s {
	case Runnable:
		return "Runnable"
	case WaitingTimeout:
		return "WaitingTimeout"
	case WaitingResource:
		return "WaitingResource"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// A Continuation is the next piece of a process body.
type Continuation func(p *Process)

type start struct{}

type timeoutExpired struct{}

type granted struct{}

// A Process is a resumable unit of simulated activity.
type Process struct {
	id    string
	name  string
	state State
	next  Continuation
	sched *Scheduler
}

// ID returns the unique ID of the process.
func (p *Process) ID() string {
	return p.id
}

// Name returns the name given at spawn time.
func (p *Process) Name() string {
	return p.name
}

// State returns the current state.
func (p *Process) State() State {
	return p.state
}

// Now returns the current simulated time.
func (p *Process) Now() timing.VTimeInMin {
	return p.sched.engine.CurrentTime()
}

// Scheduler returns the scheduler that owns the process.
func (p *Process) Scheduler() *Scheduler {
	return p.sched
}

// Timeout suspends the process for delay and continues with next.
func (p *Process) Timeout(delay timing.VTimeInMin, next Continuation) {
	p.mustBeRunnable("timeout")

	p.state = WaitingTimeout
	p.next = next
	p.sched.engine.Schedule(delay, p, timeoutExpired{})
}

// Wait suspends the process until Wake is called and continues with next.
// It is meant for resources that queue the process.
func (p *Process) Wait(next Continuation) {
	p.mustBeRunnable("wait")

	p.state = WaitingResource
	p.next = next
}

// Wake resumes a process suspended by Wait. The process continues in a
// separate zero-delay event, after the continuation calling Wake returns.
func (p *Process) Wake() {
	if p.state != WaitingResource {
		timing.Violate(p.Now(), "waking %s in state %s", p.name, p.state)
	}

	p.sched.engine.Schedule(0, p, granted{})
}

// Handle resumes the process. It implements timing.Handler.
func (p *Process) Handle(payload any) error {
	switch payload.(type) {
	case start:
		p.mustBeIn(Runnable, payload)
	case timeoutExpired:
		p.mustBeIn(WaitingTimeout, payload)
	case granted:
		p.mustBeIn(WaitingResource, payload)
	default:
		return fmt.Errorf("process %s: unknown payload %T", p.name, payload)
	}

	p.resume()

	return nil
}

func (p *Process) resume() {
	next := p.next
	p.next = nil
	p.state = Runnable

	next(p)

	if p.state == Runnable {
		p.state = Terminated
		p.sched.terminated(p)
	}
}

func (p *Process) mustBeRunnable(action string) {
	if p.state != Runnable {
		timing.Violate(p.Now(), "%s cannot %s in state %s",
			p.name, action, p.state)
	}
}

func (p *Process) mustBeIn(want State, payload any) {
	if p.state != want {
		timing.Violate(p.Now(), "%s resumed by %T in state %s",
			p.name, payload, p.state)
	}
}
