package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/queuesim/report"
	"github.com/sarchlab/queuesim/shop"
	"github.com/sarchlab/queuesim/simulation"
	"github.com/sarchlab/queuesim/variate"
)

type runOptions struct {
	seed        uint64
	runs        int
	format      string
	logEvents   bool
	record      bool
	recordPath  string
	monitor     bool
	monitorPort int
	openMonitor bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			return runAll(cmd, cfg, opts)
		},
	}

	flags := runCmd.Flags()
	flags.Uint64Var(&opts.seed, "seed", 1,
		"seed of the first run, later runs use the following seeds")
	flags.IntVar(&opts.runs, "runs", 1, "number of independent runs")
	flags.StringVar(&opts.format, "format", "text", "output format, text or yaml")
	flags.BoolVar(&opts.logEvents, "log-events", false,
		"print every dispatched event to stderr")
	flags.BoolVar(&opts.record, "record", false,
		"record customers, queue samples and server activity into SQLite")
	flags.StringVar(&opts.recordPath, "record-path", "",
		"database path without the .sqlite3 extension")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"serve the monitoring API while running")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random if unset")
	flags.BoolVar(&opts.openMonitor, "open-monitor", false,
		"open the monitoring page in a browser")

	return runCmd
}

func (o runOptions) validate() error {
	if o.runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", o.runs)
	}

	if o.format != "text" && o.format != "yaml" {
		return fmt.Errorf("unknown format %q", o.format)
	}

	if o.recordPath != "" && !o.record {
		return errors.New("--record-path needs --record")
	}

	if o.recordPath != "" && o.runs > 1 {
		return errors.New("--record-path cannot be shared by several runs")
	}

	if (o.monitorPort != 0 || o.openMonitor) && !o.monitor {
		return errors.New("--monitor-port and --open-monitor need --monitor")
	}

	return nil
}

func (o runOptions) builder() simulation.Builder {
	b := simulation.MakeBuilder()

	if o.logEvents {
		b = b.WithEventLogger(log.New(os.Stderr, "", 0))
	}

	if o.record {
		b = b.WithDataRecording(o.recordPath)
	}

	if o.monitor {
		b = b.WithMonitoring().WithMonitorPort(o.monitorPort)
		if o.openMonitor {
			b = b.WithOpenBrowser()
		}
	}

	return b
}

func runAll(cmd *cobra.Command, cfg shop.Config, opts runOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	reports := make([]report.Report, 0, opts.runs)

	for i := 0; i < opts.runs; i++ {
		seed := opts.seed + uint64(i)

		rep, err := runOnce(cfg, opts, seed)
		if err != nil {
			return fmt.Errorf("run %d (seed %d): %w", i+1, seed, err)
		}

		rep.Run = i + 1
		reports = append(reports, rep)

		if opts.format == "text" {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}

			if err := report.WriteText(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
		}
	}

	if opts.format == "yaml" {
		return report.WriteYAML(cmd.OutOrStdout(), reports)
	}

	return nil
}

func runOnce(
	cfg shop.Config,
	opts runOptions,
	seed uint64,
) (report.Report, error) {
	s := opts.builder().Build()

	r, err := shop.NewRun(cfg, variate.NewSeeded(seed), s)
	if err != nil {
		_ = s.Terminate()
		return report.Report{}, err
	}

	start := time.Now()
	res, err := r.Execute()
	wall := time.Since(start)

	if termErr := s.Terminate(); err == nil {
		err = termErr
	}

	if err != nil {
		return report.Report{}, err
	}

	return report.Report{
		Summary:         res.Summary,
		Seed:            seed,
		WallClock:       wall,
		Drained:         res.Drained,
		DrainedAt:       res.DrainedAt,
		EndTime:         res.EndTime,
		DiscardedEvents: res.DiscardedEvents,
		InService:       res.InService,
		InQueue:         res.InQueue,
	}, nil
}
