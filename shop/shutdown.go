package shop

import (
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// closeAfterWork waits out the working duration, closes the shop and then
// polls until the server is drained.
func (r *Run) closeAfterWork(p *process.Process) {
	p.Timeout(timing.VTimeInMin(r.cfg.WorkingDuration),
		func(p *process.Process) {
			r.open = false
			r.closed = true
			r.closedAt = p.Now()

			r.pollDrained(p)
		})
}

func (r *Run) pollDrained(p *process.Process) {
	if r.server.Drained() {
		r.drained = true
		r.drainedAt = p.Now()

		return
	}

	p.Timeout(timing.VTimeInMin(r.cfg.PollInterval), r.pollDrained)
}
