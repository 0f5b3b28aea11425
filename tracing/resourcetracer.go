// Package tracing turns hook notifications into ordered trace records.
package tracing

import (
	"fmt"

	"github.com/sarchlab/queuesim/datarecording"
	"github.com/sarchlab/queuesim/sim/hooking"
	"github.com/sarchlab/queuesim/sim/resource"
)

// ResourceTraceTable is the table the ResourceTracer writes into.
const ResourceTraceTable = "resource_trace"

// A ResourceEntry is one enqueue, grant or release observed on a resource.
type ResourceEntry struct {
	Time     float64
	Kind     string
	Resource string
	Ticket   uint64
	Process  string
	Active   int
	Queued   int
}

func (e ResourceEntry) String() string {
	return fmt.Sprintf("%.6f %s %s #%d %s active=%d queued=%d",
		e.Time, e.Resource, e.Kind, e.Ticket, e.Process, e.Active, e.Queued)
}

// ResourceTracer records resource activity in memory and, if a recorder is
// given, into the database.
type ResourceTracer struct {
	recorder datarecording.DataRecorder
	entries  []ResourceEntry
}

// NewResourceTracer creates a ResourceTracer. recorder may be nil.
func NewResourceTracer(recorder datarecording.DataRecorder) *ResourceTracer {
	t := &ResourceTracer{recorder: recorder}

	if recorder != nil {
		recorder.CreateTable(ResourceTraceTable, ResourceEntry{})
	}

	return t
}

// Func records resource hook notifications and ignores everything else.
func (t *ResourceTracer) Func(ctx hooking.HookCtx) {
	var kind string

	switch ctx.Pos {
	case resource.HookPosEnqueue:
		kind = "enqueue"
	case resource.HookPosGrant:
		kind = "grant"
	case resource.HookPosRelease:
		kind = "release"
	default:
		return
	}

	res, ok := ctx.Domain.(*resource.Resource)
	if !ok {
		return
	}

	ticket := ctx.Item.(*resource.Ticket)

	entry := ResourceEntry{
		Time:     float64(ticket.Process.Now()),
		Kind:     kind,
		Resource: res.Name(),
		Ticket:   ticket.Number,
		Process:  ticket.Process.Name(),
		Active:   res.Active(),
		Queued:   res.QueueLen(),
	}

	t.entries = append(t.entries, entry)

	if t.recorder != nil {
		t.recorder.InsertData(ResourceTraceTable, entry)
	}
}

// Entries returns the records collected so far.
func (t *ResourceTracer) Entries() []ResourceEntry {
	return append([]ResourceEntry(nil), t.entries...)
}

// Grants returns the ticket numbers in the order they were granted.
func (t *ResourceTracer) Grants() []uint64 {
	var grants []uint64

	for _, e := range t.entries {
		if e.Kind == "grant" {
			grants = append(grants, e.Ticket)
		}
	}

	return grants
}
