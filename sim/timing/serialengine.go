package timing

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/sarchlab/queuesim/sim/hooking"
)

// A SerialEngine dispatches events one after another in (time, sequence)
// order.
type SerialEngine struct {
	*hooking.HookableBase

	timeLock sync.RWMutex
	now      VTimeInMin

	queue     EventQueue
	nextSeq   uint64
	discarded int

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine at time zero.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: hooking.NewHookableBase(),
		queue:        NewEventQueue(),
	}
}

// Schedule queues payload for handler after delay.
func (e *SerialEngine) Schedule(
	delay VTimeInMin,
	handler Handler,
	payload any,
) {
	now := e.readNow()

	if delay < 0 || math.IsNaN(float64(delay)) {
		Violate(now, "cannot schedule %s with delay %.4f",
			reflect.TypeOf(payload), delay)
	}

	if handler == nil {
		Violate(now, "cannot schedule %s without a handler",
			reflect.TypeOf(payload))
	}

	e.nextSeq++
	e.queue.Push(&Event{
		Payload: payload,
		Time:    now + delay,
		Handler: handler,
		seq:     e.nextSeq,
	})
}

func (e *SerialEngine) readNow() VTimeInMin {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInMin) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Run dispatches events until the queue is empty.
func (e *SerialEngine) Run() error {
	return e.RunUntil(VTimeInMin(math.Inf(1)))
}

// RunUntil dispatches every event due at or before horizon. Whatever is left
// afterwards is discarded and counted in Discarded.
func (e *SerialEngine) RunUntil(horizon VTimeInMin) (err error) {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	defer recoverViolation(&err)

	for {
		next := e.queue.Peek()
		if next == nil {
			return nil
		}

		if next.Time > horizon {
			e.discarded += e.queue.Clear()
			return nil
		}

		if err := e.step(); err != nil {
			return err
		}
	}
}

func (e *SerialEngine) step() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.queue.Pop()
	now := e.readNow()

	if evt.Time < now {
		Violate(now, "cannot run event in the past, evt %s @ %.4f",
			reflect.TypeOf(evt.Payload), evt.Time)
	}

	e.writeNow(evt.Time)

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	if err := evt.Handler.Handle(evt.Payload); err != nil {
		return fmt.Errorf("handling %s @ %.4f: %w",
			reflect.TypeOf(evt.Payload), evt.Time, err)
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}

// Pending returns the number of queued events.
func (e *SerialEngine) Pending() int {
	return e.queue.Len()
}

// Discarded returns how many events the horizon has dropped so far.
func (e *SerialEngine) Discarded() int {
	return e.discarded
}

// Pause prevents the engine from dispatching more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue lets a paused engine dispatch again.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Paused reports whether the engine is paused.
func (e *SerialEngine) Paused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

// CurrentTime returns the time of the event being, or last, dispatched.
func (e *SerialEngine) CurrentTime() VTimeInMin {
	return e.readNow()
}

var _ Engine = (*SerialEngine)(nil)
