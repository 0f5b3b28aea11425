// Package simulation wires an engine, a process scheduler and the optional
// recording and monitoring services into one run.
package simulation

import (
	"github.com/sarchlab/queuesim/datarecording"
	"github.com/sarchlab/queuesim/monitoring"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// A Simulation provides the services a run is built on.
type Simulation struct {
	id string

	engine    timing.Engine
	scheduler *process.Scheduler

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() timing.Engine {
	return s.engine
}

// GetScheduler returns the process scheduler of the simulation.
func (s *Simulation) GetScheduler() *process.Scheduler {
	return s.scheduler
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Terminate flushes and closes the recorder and stops the monitor.
func (s *Simulation) Terminate() error {
	if s.monitor != nil {
		s.monitor.StopServer()
	}

	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
