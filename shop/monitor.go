package shop

import (
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// HookPosQueueSampled fires on every queue sample. The item is a
// *QueueSample.
var HookPosQueueSampled = &hooking.HookPos{Name: "Queue Sampled"}

// A QueueSample is the state of the server at one sampling tick.
type QueueSample struct {
	Time   float64
	Length int
	Active int
}

// watch samples the wait queue while the shop is open or still busy.
func (r *Run) watch(p *process.Process) {
	if !r.open && r.server.Drained() {
		return
	}

	active := r.server.Active()
	if active < 0 || active > r.server.Capacity() {
		timing.Violate(p.Now(), "server has %d active of capacity %d",
			active, r.server.Capacity())
	}

	sample := &QueueSample{
		Time:   float64(p.Now()),
		Length: r.server.QueueLen(),
		Active: active,
	}

	r.store.SampleQueue(sample.Length)
	r.invoke(HookPosQueueSampled, sample)

	if r.progress != nil {
		r.progress.SetFinished(uint64(p.Now()))
	}

	p.Timeout(timing.VTimeInMin(r.cfg.SampleInterval), r.watch)
}
