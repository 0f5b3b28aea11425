package process

import (
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/id"
	"github.com/sarchlab/queuesim/sim/timing"
)

// HookPosSpawn fires when a process is spawned. The item is the process.
var HookPosSpawn = &hooking.HookPos{Name: "ProcessSpawn"}

// HookPosTerminate fires when a process terminates. The item is the process.
var HookPosTerminate = &hooking.HookPos{Name: "ProcessTerminate"}

// A Scheduler spawns processes and keeps track of the live ones.
type Scheduler struct {
	*hooking.HookableBase

	engine timing.Engine
	ids    id.Generator
	live   int
}

// NewScheduler creates a Scheduler driven by engine.
func NewScheduler(engine timing.Engine) *Scheduler {
	return &Scheduler{
		HookableBase: hooking.NewHookableBase(),
		engine:       engine,
		ids:          id.NewGenerator("proc-"),
	}
}

// Engine returns the engine driving the scheduler.
func (s *Scheduler) Engine() timing.Engine {
	return s.engine
}

// Now returns the current simulated time.
func (s *Scheduler) Now() timing.VTimeInMin {
	return s.engine.CurrentTime()
}

// Spawn creates a process that starts running body at the current time,
// after the events already due now.
func (s *Scheduler) Spawn(name string, body Continuation) *Process {
	p := &Process{
		id:    s.ids.Generate(),
		name:  name,
		state: Runnable,
		next:  body,
		sched: s,
	}

	s.live++
	s.engine.Schedule(0, p, start{})

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosSpawn,
		Item:   p,
	})

	return p
}

// Live returns the number of processes that have not terminated.
func (s *Scheduler) Live() int {
	return s.live
}

func (s *Scheduler) terminated(p *Process) {
	s.live--

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosTerminate,
		Item:   p,
	})
}
