// Package resource provides a capacity-limited resource that processes
// contend for. Waiters are served strictly first come, first served.
package resource

import (
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// HookPosEnqueue fires when a request has to wait. The item is the *Ticket.
var HookPosEnqueue = &hooking.HookPos{Name: "Resource Enqueue"}

// HookPosGrant fires when a request is granted. The item is the *Ticket.
var HookPosGrant = &hooking.HookPos{Name: "Resource Grant"}

// HookPosRelease fires when a holder releases. The item is the *Ticket.
var HookPosRelease = &hooking.HookPos{Name: "Resource Release"}

// A Ticket tracks one request from the moment it is made until the holder
// releases.
type Ticket struct {
	// Number is the request order, starting from 1.
	Number uint64

	// Process is the requester.
	Process *process.Process

	RequestedAt timing.VTimeInMin
	GrantedAt   timing.VTimeInMin
}

// A Resource lets at most Capacity processes hold it at the same time.
type Resource struct {
	*hooking.HookableBase

	name     string
	capacity int
	active   int

	waitQueue []*Ticket
	holders   map[*process.Process]*Ticket

	nextNumber  uint64
	lastGranted uint64

	sched *process.Scheduler
}

// New creates a Resource. It panics if capacity is not positive.
func New(name string, capacity int, sched *process.Scheduler) *Resource {
	if capacity < 1 {
		panic("resource capacity must be positive")
	}

	return &Resource{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		capacity:     capacity,
		holders:      make(map[*process.Process]*Ticket),
		sched:        sched,
	}
}

// Name returns the name of the resource.
func (r *Resource) Name() string {
	return r.name
}

// Capacity returns how many processes may hold the resource at once.
func (r *Resource) Capacity() int {
	return r.capacity
}

// Active returns how many processes hold the resource.
func (r *Resource) Active() int {
	return r.active
}

// QueueLen returns how many requests are waiting.
func (r *Resource) QueueLen() int {
	return len(r.waitQueue)
}

// Busy tells if anyone holds the resource.
func (r *Resource) Busy() bool {
	return r.active > 0
}

// Drained tells if nobody holds the resource and nobody waits for it.
func (r *Resource) Drained() bool {
	return r.active == 0 && len(r.waitQueue) == 0
}

// Request asks for the resource on behalf of p. If a slot is free and nobody
// is waiting, onGrant runs immediately as part of the current continuation.
// Otherwise p waits and onGrant runs once its turn comes.
func (r *Resource) Request(p *process.Process, onGrant process.Continuation) {
	t := &Ticket{
		Number:      r.nextNumber + 1,
		Process:     p,
		RequestedAt: r.sched.Now(),
	}

	if _, held := r.holders[p]; held {
		timing.Violate(t.RequestedAt, "%s requests %s while holding it",
			p.Name(), r.name)
	}

	r.nextNumber++

	if r.active < r.capacity && len(r.waitQueue) == 0 {
		r.grant(t)
		onGrant(p)

		return
	}

	r.waitQueue = append(r.waitQueue, t)
	r.invoke(HookPosEnqueue, t)
	p.Wait(onGrant)
}

// Release gives up the slot held by p and hands it to the oldest waiter, if
// any.
func (r *Resource) Release(p *process.Process) {
	now := r.sched.Now()

	t, held := r.holders[p]
	if !held {
		timing.Violate(now, "%s releases %s without holding it",
			p.Name(), r.name)
	}

	if r.active == 0 {
		timing.Violate(now, "%s released while idle", r.name)
	}

	delete(r.holders, p)
	r.active--
	r.invoke(HookPosRelease, t)

	if len(r.waitQueue) == 0 {
		return
	}

	head := r.waitQueue[0]
	r.waitQueue[0] = nil
	r.waitQueue = r.waitQueue[1:]

	r.grant(head)
	head.Process.Wake()
}

func (r *Resource) grant(t *Ticket) {
	now := r.sched.Now()

	if t.Number != r.lastGranted+1 {
		timing.Violate(now, "%s grants request #%d before #%d",
			r.name, t.Number, r.lastGranted+1)
	}

	r.active++
	if r.active > r.capacity {
		timing.Violate(now, "%s has %d holders, capacity %d",
			r.name, r.active, r.capacity)
	}

	r.lastGranted = t.Number
	t.GrantedAt = now
	r.holders[t.Process] = t
	r.invoke(HookPosGrant, t)
}

func (r *Resource) invoke(pos *hooking.HookPos, t *Ticket) {
	if r.NumHooks() == 0 {
		return
	}

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    pos,
		Item:   t,
	})
}
