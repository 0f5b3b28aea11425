// Package shop models a service point where customers arrive at random,
// queue for a server and leave once served. The shop closes after its
// working duration and keeps serving until everybody inside is done.
package shop

import (
	"errors"
	"math"

	"github.com/sarchlab/queuesim/metrics"
	"github.com/sarchlab/queuesim/monitoring"
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/resource"
	"github.com/sarchlab/queuesim/sim/timing"
	"github.com/sarchlab/queuesim/simulation"
	"github.com/sarchlab/queuesim/tracing"
	"github.com/sarchlab/queuesim/variate"
)

// ErrAlreadyExecuted is returned when a Run is executed twice.
var ErrAlreadyExecuted = errors.New("run already executed")

// Result is what a run reports once it stops.
type Result struct {
	metrics.Summary `yaml:",inline"`

	Snapshot  metrics.Snapshot `json:"-" yaml:"-"`
	Customers []Customer       `json:"-" yaml:"-"`

	EndTime   float64 `json:"end_time" yaml:"end_time"`
	ClosedAt  float64 `json:"closed_at" yaml:"closed_at"`
	DrainedAt float64 `json:"drained_at" yaml:"drained_at"`
	Closed    bool    `json:"closed" yaml:"closed"`
	Drained   bool    `json:"drained" yaml:"drained"`

	// Truncated reports that the run stopped with the shop still open or
	// with customers inside. Drained and DrainedAt only record what the
	// shutdown process saw, so a run whose last departure falls on the
	// horizon is drained but not Drained.
	Truncated       bool `json:"truncated" yaml:"truncated"`
	DiscardedEvents int  `json:"discarded_events" yaml:"discarded_events"`
	InService       int  `json:"in_service" yaml:"in_service"`
	InQueue         int  `json:"in_queue" yaml:"in_queue"`
}

// A Run is one simulated working day of the shop.
type Run struct {
	*hooking.HookableBase

	cfg Config
	src variate.Source

	sim    *simulation.Simulation
	engine timing.Engine
	sched  *process.Scheduler
	server *resource.Resource
	store  *metrics.Store
	tracer *tracing.ResourceTracer

	progress *monitoring.ProgressBar

	open         bool
	closed       bool
	drained      bool
	closedAt     timing.VTimeInMin
	drainedAt    timing.VTimeInMin
	nextCustomer int
	customers    []Customer
	executed     bool
}

// NewRun validates cfg and prepares a run on s. Random variates are drawn
// from src only.
func NewRun(
	cfg Config,
	src variate.Source,
	s *simulation.Simulation,
) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if src == nil {
		return nil, errors.New("shop: nil random source")
	}

	r := &Run{
		HookableBase: hooking.NewHookableBase(),
		cfg:          cfg,
		src:          src,
		sim:          s,
		engine:       s.GetEngine(),
		sched:        s.GetScheduler(),
		store:        metrics.NewStore(),
	}

	// A shop without working time never opens, so nothing is sampled or
	// admitted at time zero. From then on only the shutdown writes it.
	r.open = cfg.WorkingDuration > 0

	r.server = resource.New("server", cfg.Capacity, r.sched)

	r.tracer = tracing.NewResourceTracer(s.GetDataRecorder())
	r.server.AcceptHook(r.tracer)

	if recorder := s.GetDataRecorder(); recorder != nil {
		r.AcceptHook(NewRecorder(recorder))
	}

	if monitor := s.GetMonitor(); monitor != nil {
		monitor.RegisterState("shop", r)
		monitor.RegisterState("server", r.server)
		r.progress = monitor.CreateProgressBar(
			"Run "+s.ID(), uint64(math.Ceil(cfg.Horizon)))
	}

	return r, nil
}

// Config returns the configuration of the run.
func (r *Run) Config() Config {
	return r.cfg
}

// Server returns the contended resource.
func (r *Run) Server() *resource.Resource {
	return r.server
}

// Tracer returns the trace of server activity.
func (r *Run) Tracer() *tracing.ResourceTracer {
	return r.tracer
}

// Open reports whether the shop still lets customers in.
func (r *Run) Open() bool {
	return r.open
}

// Execute runs the simulation until the horizon. An invariant violation or
// a handler failure aborts the run and is returned.
func (r *Run) Execute() (*Result, error) {
	if r.executed {
		return nil, ErrAlreadyExecuted
	}

	r.executed = true

	r.sched.Spawn("arrival", r.arrive)
	r.sched.Spawn("monitor", r.watch)
	r.sched.Spawn("shutdown", r.closeAfterWork)

	err := r.engine.RunUntil(timing.VTimeInMin(r.cfg.Horizon))

	if r.progress != nil {
		r.sim.GetMonitor().CompleteProgressBar(r.progress)
	}

	if err != nil {
		return nil, err
	}

	return r.result(), nil
}

func (r *Run) result() *Result {
	snapshot := r.store.Snapshot()

	return &Result{
		Summary:         snapshot.Summarize(r.cfg.WorkingDuration, r.cfg.Capacity),
		Snapshot:        snapshot,
		Customers:       append([]Customer(nil), r.customers...),
		EndTime:         float64(r.engine.CurrentTime()),
		ClosedAt:        float64(r.closedAt),
		DrainedAt:       float64(r.drainedAt),
		Closed:          r.closed,
		Drained:         r.drained,
		Truncated:       !r.closed || !r.server.Drained(),
		DiscardedEvents: r.engine.Discarded(),
		InService:       r.server.Active(),
		InQueue:         r.server.QueueLen(),
	}
}

func (r *Run) invoke(pos *hooking.HookPos, item any) {
	if r.NumHooks() == 0 {
		return
	}

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    pos,
		Item:   item,
	})
}

// Simulate runs one day of the shop on a fresh simulation without
// recording or monitoring.
func Simulate(cfg Config, src variate.Source) (*Result, error) {
	s := simulation.MakeBuilder().Build()
	defer s.Terminate()

	r, err := NewRun(cfg, src, s)
	if err != nil {
		return nil, err
	}

	return r.Execute()
}
