package shop

import (
	"fmt"

	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// arrive lets customers in at exponential intervals until the shop closes.
// The open flag is checked again after every gap so that nobody enters a
// closed shop.
func (r *Run) arrive(p *process.Process) {
	if !r.open {
		return
	}

	gap := r.src.Exponential(r.cfg.MeanInterarrival)

	p.Timeout(timing.VTimeInMin(gap), func(p *process.Process) {
		if !r.open {
			return
		}

		r.nextCustomer++
		c := &Customer{ID: r.nextCustomer}

		r.store.CountArrival()
		r.invoke(HookPosCustomerArrived, c)
		r.sched.Spawn(fmt.Sprintf("customer-%d", c.ID), r.customerBody(c))

		r.arrive(p)
	})
}
