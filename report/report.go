// Package report renders the outcome of runs for people and for tools.
package report

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/queuesim/metrics"
)

// A Report is the outcome of one run together with how it was produced.
type Report struct {
	metrics.Summary `yaml:",inline"`

	Run       int           `yaml:"run"`
	Seed      uint64        `yaml:"seed"`
	WallClock time.Duration `yaml:"wall_clock"`

	Drained         bool    `yaml:"drained"`
	DrainedAt       float64 `yaml:"drained_at"`
	EndTime         float64 `yaml:"end_time"`
	DiscardedEvents int     `yaml:"discarded_events"`
	InService       int     `yaml:"in_service"`
	InQueue         int     `yaml:"in_queue"`
}

type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}

	_, l.err = fmt.Fprintf(l.w, format+"\n", args...)
}

// WriteText prints the report as plain lines.
func WriteText(w io.Writer, r Report) error {
	l := &lineWriter{w: w}

	l.printf("Run %d (seed %d) completed in %.2f seconds",
		r.Run, r.Seed, r.WallClock.Seconds())
	l.printf("Average customer wait time: %.2f minutes", r.AvgWait)
	l.printf("Maximum customer wait time: %.2f minutes", r.MaxWait)
	l.printf("Average queue length: %.2f customers", r.AvgQueue)
	l.printf("Maximum queue length: %d customers", r.MaxQueue)
	l.printf("Server utilization rate: %.2f%%", r.Utilization)
	l.printf("Total customers: %d", r.TotalCustomers)
	l.printf("Served customers: %d", r.ServedCustomers)
	l.printf("Delayed customers: %d", r.DelayedCustomers)

	if r.Drained {
		l.printf("Drained at %.2f minutes", r.DrainedAt)
	} else {
		l.printf("Stopped at %.2f minutes with %d in service and %d waiting "+
			"(%d events discarded)",
			r.EndTime, r.InService, r.InQueue, r.DiscardedEvents)
	}

	return l.err
}

// WriteYAML writes the reports as a YAML list.
func WriteYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return err
	}

	return enc.Close()
}
