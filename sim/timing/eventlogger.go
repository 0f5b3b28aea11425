package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/queuesim/sim/hooking"
)

// EventLogger is a hook that prints every dispatched event.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger returns an EventLogger writing into logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

type named interface {
	Name() string
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	handlerName := reflect.TypeOf(evt.Handler).String()
	if n, ok := evt.Handler.(named); ok {
		handlerName = n.Name()
	}

	h.logger.Printf("%.4f #%d, %s -> %s",
		evt.Time, evt.Sequence(), reflect.TypeOf(evt.Payload), handlerName)
}
