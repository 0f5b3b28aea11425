package shop_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/queuesim/shop"
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/timing"
	"github.com/sarchlab/queuesim/simulation"
	"github.com/sarchlab/queuesim/tracing"
	"github.com/sarchlab/queuesim/variate"
)

type negativeGaps struct{}

func (negativeGaps) Exponential(float64) float64 { return -1 }

func (negativeGaps) Uniform(lo, _ float64) float64 { return lo }

func fixedServiceConfig(working float64) shop.Config {
	cfg := shop.DefaultConfig()
	cfg.WorkingDuration = working
	cfg.MinService = 10
	cfg.MaxService = 10

	return cfg
}

func threeCustomers() variate.Source {
	return variate.NewScripted(
		variate.Arrivals(0, 5, 8),
		[]float64{10, 10, 10},
	)
}

func seededRun(seed uint64) (*shop.Result, []tracing.ResourceEntry) {
	s := simulation.MakeBuilder().Build()
	defer s.Terminate()

	r, err := shop.NewRun(shop.DefaultConfig(), variate.NewSeeded(seed), s)
	Expect(err).NotTo(HaveOccurred())

	res, err := r.Execute()
	Expect(err).NotTo(HaveOccurred())

	return res, r.Tracer().Entries()
}

var _ = Describe("Run", func() {
	Context("with three customers arriving at 0, 5 and 8", func() {
		It("should serve them in order", func() {
			res, err := shop.Simulate(fixedServiceConfig(30), threeCustomers())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Snapshot.WaitTimes).To(Equal([]float64{0, 5, 12}))
			Expect(res.AvgWait).To(BeNumerically("~", 17.0/3, 1e-9))
			Expect(res.MaxWait).To(Equal(12.0))
			Expect(res.MaxQueue).To(Equal(2))
			Expect(res.Utilization).To(BeNumerically("~", 100, 1e-9))
			Expect(res.TotalCustomers).To(Equal(3))
			Expect(res.ServedCustomers).To(Equal(3))
			Expect(res.DelayedCustomers).To(Equal(2))

			Expect(res.Customers).To(HaveLen(3))
			for i, c := range res.Customers {
				Expect(c.ID).To(Equal(i + 1))
				Expect(c.ServiceStart).To(Equal(float64(10 * i)))
				Expect(c.DepartureTime).To(Equal(float64(10*i + 10)))
			}

			Expect(res.Closed).To(BeTrue())
			Expect(res.ClosedAt).To(Equal(30.0))
			Expect(res.Drained).To(BeTrue())
			Expect(res.Truncated).To(BeFalse())
			Expect(res.InService).To(Equal(0))
			Expect(res.InQueue).To(Equal(0))
		})

		It("should not drain before the last service ends", func() {
			res, err := shop.Simulate(fixedServiceConfig(20), threeCustomers())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.ClosedAt).To(Equal(20.0))
			Expect(res.Drained).To(BeTrue())
			Expect(res.DrainedAt).To(Equal(30.0))
			Expect(res.ServedCustomers).To(Equal(3))
			Expect(res.Customers[2].DepartureTime).To(Equal(30.0))
		})

		It("should sample the queue until the shop is closed and idle", func() {
			res, err := shop.Simulate(fixedServiceConfig(20), threeCustomers())

			Expect(err).NotTo(HaveOccurred())

			want := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 2}
			for i := 0; i < 10; i++ {
				want = append(want, 1)
			}
			for i := 0; i < 10; i++ {
				want = append(want, 0)
			}

			Expect(res.Snapshot.QueueLengths).To(Equal(want))
			Expect(res.AvgQueue).To(BeNumerically("~", 0.5, 1e-9))
			Expect(res.MaxQueue).To(Equal(2))
		})

		It("should not count a drain on the horizon as truncation", func() {
			cfg := fixedServiceConfig(30)
			cfg.Horizon = 30

			res, err := shop.Simulate(cfg, threeCustomers())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.ServedCustomers).To(Equal(3))
			Expect(res.InService).To(Equal(0))
			Expect(res.InQueue).To(Equal(0))
			Expect(res.Closed).To(BeTrue())
			Expect(res.Drained).To(BeFalse())
			Expect(res.Truncated).To(BeFalse())
			Expect(res.DiscardedEvents).To(BeNumerically(">", 0))
		})

		It("should let nobody in after closing", func() {
			res, err := shop.Simulate(fixedServiceConfig(6), threeCustomers())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalCustomers).To(Equal(2))
			Expect(res.ServedCustomers).To(Equal(2))
			Expect(res.DrainedAt).To(BeNumerically(">=", 20))
		})

		It("should notify departures", func() {
			s := simulation.MakeBuilder().Build()
			defer s.Terminate()

			r, err := shop.NewRun(fixedServiceConfig(30), threeCustomers(), s)
			Expect(err).NotTo(HaveOccurred())

			var departed []int
			r.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				if ctx.Pos == shop.HookPosCustomerDeparted {
					departed = append(departed, ctx.Item.(*shop.Customer).ID)
				}
			}))

			_, err = r.Execute()

			Expect(err).NotTo(HaveOccurred())
			Expect(departed).To(Equal([]int{1, 2, 3}))
		})
	})

	It("should serve nobody with a zero working duration", func() {
		cfg := shop.DefaultConfig()
		cfg.WorkingDuration = 0

		res, err := shop.Simulate(cfg, variate.NewSeeded(7))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.TotalCustomers).To(Equal(0))
		Expect(res.ServedCustomers).To(Equal(0))
		Expect(res.Utilization).To(Equal(0.0))
		Expect(res.Snapshot.QueueLengths).To(BeEmpty())
		Expect(res.AvgQueue).To(Equal(0.0))
		Expect(res.Drained).To(BeTrue())
	})

	It("should replay the same run from the same seed", func() {
		resA, traceA := seededRun(42)
		resB, traceB := seededRun(42)

		Expect(traceA).NotTo(BeEmpty())
		Expect(traceA).To(Equal(traceB))
		Expect(*resA).To(Equal(*resB))

		resC, _ := seededRun(43)
		Expect(resC.Snapshot.WaitTimes).NotTo(Equal(resA.Snapshot.WaitTimes))
	})

	It("should keep queueing properties in a long run", func() {
		s := simulation.MakeBuilder().Build()
		defer s.Terminate()

		r, err := shop.NewRun(shop.DefaultConfig(), variate.NewSeeded(1), s)
		Expect(err).NotTo(HaveOccurred())

		res, err := r.Execute()
		Expect(err).NotTo(HaveOccurred())

		for _, c := range res.Customers {
			Expect(c.ServiceStart).To(BeNumerically(">=", c.ArrivalTime))
		}

		for _, w := range res.Snapshot.WaitTimes {
			Expect(w).To(BeNumerically(">=", 0))
		}

		Expect(res.Utilization).To(And(
			BeNumerically(">=", 0), BeNumerically("<=", 100)))

		grants := r.Tracer().Grants()
		Expect(grants).To(HaveLen(res.StartedService))
		for i, g := range grants {
			Expect(g).To(Equal(uint64(i + 1)))
		}

		for _, e := range r.Tracer().Entries() {
			Expect(e.Active).To(And(
				BeNumerically(">=", 0), BeNumerically("<=", 1)))
		}
	})

	It("should report truncation by the horizon", func() {
		res, err := shop.Simulate(shop.DefaultConfig(), variate.NewSeeded(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Truncated).To(BeTrue())
		Expect(res.Drained).To(BeFalse())
		Expect(res.EndTime).To(BeNumerically("<=", 600))
		Expect(res.DiscardedEvents).To(BeNumerically(">", 0))
		Expect(res.ServedCustomers).To(BeNumerically("<", res.TotalCustomers))
		Expect(res.InService).To(Equal(1))
		Expect(res.InQueue).To(Equal(
			res.TotalCustomers - res.ServedCustomers - res.InService))
	})

	It("should abort on an invariant violation", func() {
		res, err := shop.Simulate(shop.DefaultConfig(), negativeGaps{})

		Expect(res).To(BeNil())

		var violation *timing.InvariantViolation
		Expect(errors.As(err, &violation)).To(BeTrue())
	})

	It("should refuse to execute twice", func() {
		s := simulation.MakeBuilder().Build()
		defer s.Terminate()

		r, err := shop.NewRun(fixedServiceConfig(30), threeCustomers(), s)
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Execute()
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Execute()
		Expect(err).To(MatchError(shop.ErrAlreadyExecuted))
	})

	It("should refuse a nil random source", func() {
		_, err := shop.Simulate(shop.DefaultConfig(), nil)

		Expect(err).To(HaveOccurred())
	})
})
