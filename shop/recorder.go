package shop

import (
	"github.com/sarchlab/queuesim/datarecording"
	"github.com/sarchlab/queuesim/sim/hooking"
)

// Tables written by the Recorder.
const (
	CustomerTable    = "customers"
	QueueSampleTable = "queue_samples"
)

// A Recorder is a hook that stores departed customers and queue samples.
type Recorder struct {
	recorder datarecording.DataRecorder
}

// NewRecorder creates the tables and returns the hook.
func NewRecorder(recorder datarecording.DataRecorder) *Recorder {
	recorder.CreateTable(CustomerTable, Customer{})
	recorder.CreateTable(QueueSampleTable, QueueSample{})

	return &Recorder{recorder: recorder}
}

// Func writes the hook item into its table.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case HookPosCustomerDeparted:
		r.recorder.InsertData(CustomerTable, *ctx.Item.(*Customer))
	case HookPosQueueSampled:
		r.recorder.InsertData(QueueSampleTable, *ctx.Item.(*QueueSample))
	}
}
