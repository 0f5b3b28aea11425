package simulation

import (
	"log"

	"github.com/rs/xid"

	"github.com/sarchlab/queuesim/datarecording"
	"github.com/sarchlab/queuesim/monitoring"
	"github.com/sarchlab/queuesim/sim/process"
	"github.com/sarchlab/queuesim/sim/timing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn    bool
	monitorPort  int
	openBrowser  bool
	startMonitor bool
	recordOn     bool
	recordPath   string
	eventLogger  *log.Logger
}

// MakeBuilder creates a new builder. Monitoring and data recording are off
// by default.
func MakeBuilder() Builder {
	return Builder{
		startMonitor: true,
	}
}

// WithMonitoring turns on the monitoring server.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOpenBrowser opens the monitoring page once the server is up.
func (b Builder) WithOpenBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutServer registers everything with the monitor but does not start
// listening. Useful when the routes are served by the caller.
func (b Builder) WithoutServer() Builder {
	b.startMonitor = false
	return b
}

// WithDataRecording records the run into path + ".sqlite3". An empty path
// picks a name from the simulation ID.
func (b Builder) WithDataRecording(path string) Builder {
	b.recordOn = true
	b.recordPath = path

	return b
}

// WithEventLogger prints every dispatched event into logger.
func (b Builder) WithEventLogger(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("cannot open a browser when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id: xid.New().String(),
	}

	s.engine = timing.NewSerialEngine()
	s.scheduler = process.NewScheduler(s.engine)

	if b.eventLogger != nil {
		s.engine.AcceptHook(timing.NewEventLogger(b.eventLogger))
	}

	if b.recordOn {
		path := b.recordPath
		if path == "" {
			path = "queuesim_" + s.id
		}

		s.dataRecorder = datarecording.New(path)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterEngine(s.engine)

		if b.startMonitor {
			s.monitor.StartServer()
		}
	}

	return s
}
