package shop

import (
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// HookPosCustomerArrived fires when the arrival process lets a customer in.
// The item is the *Customer.
var HookPosCustomerArrived = &hooking.HookPos{Name: "Customer Arrived"}

// HookPosCustomerDeparted fires when a customer leaves after service. The
// item is the *Customer.
var HookPosCustomerDeparted = &hooking.HookPos{Name: "Customer Departed"}

// A Customer is one visit to the shop.
type Customer struct {
	ID              int
	ArrivalTime     float64
	ServiceStart    float64
	ServiceDuration float64
	DepartureTime   float64
}

// Wait returns how long the customer waited for service.
func (c *Customer) Wait() float64 {
	return c.ServiceStart - c.ArrivalTime
}

func (r *Run) customerBody(c *Customer) process.Continuation {
	return func(p *process.Process) {
		c.ArrivalTime = float64(p.Now())

		r.server.Request(p, func(p *process.Process) {
			r.startService(p, c)
		})
	}
}

func (r *Run) startService(p *process.Process, c *Customer) {
	c.ServiceStart = float64(p.Now())

	wait := c.Wait()
	if wait < 0 {
		timing.Violate(p.Now(), "customer %d started service before arriving",
			c.ID)
	}

	r.store.RecordWait(wait)

	c.ServiceDuration = r.src.Uniform(r.cfg.MinService, r.cfg.MaxService)
	r.store.RecordService(c.ServiceDuration)

	p.Timeout(timing.VTimeInMin(c.ServiceDuration), func(p *process.Process) {
		r.server.Release(p)

		c.DepartureTime = float64(p.Now())
		r.store.CountServed()
		r.customers = append(r.customers, *c)

		r.invoke(HookPosCustomerDeparted, c)
	})
}
