package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher delivers events synchronously, in the order given, to every
// consumer registered for them. It must only be called after the unit of work
// that recorded the events has committed.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch never fails: consumer errors and panics are logged and the next
// consumer runs.
func (d *Dispatcher) Dispatch(ctx context.Context, evs ...Event) {
	for _, ev := range evs {
		handlers := d.registry.HandlersFor(ev.EventType())
		zap.L().Debug("event_dispatch",
			zap.String("event_type", ev.EventType().String()),
			zap.Stringer("event_id", ev.EventID()),
			zap.Int("handler_count", len(handlers)),
		)
		for _, h := range handlers {
			if err := safeHandle(ctx, h, ev); err != nil {
				zap.L().Error("event_consumer_failed",
					zap.String("event_type", ev.EventType().String()),
					zap.Stringer("event_id", ev.EventID()),
					zap.Stringer("auction_id", ev.AggregateID()),
					zap.Error(err),
				)
			}
		}
	}
}

func safeHandle(ctx context.Context, h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("consumer panic: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}
