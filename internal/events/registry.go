package events

import (
	"sync"

	"go.uber.org/zap"
)

// Registry keeps the consumers subscribed per event type. Consumers added with
// SubscribeAll receive every event after the type-specific ones.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Type][]Handler)}
}

func (r *Registry) Subscribe(t Type, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[t] = append(r.handlers[t], h)
	zap.L().Debug("event_subscribed", zap.String("event_type", t.String()))
}

func (r *Registry) SubscribeAll(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = append(r.all, h)
}

// HandlersFor returns a copy, so callers can run handlers without holding the lock.
func (r *Registry) HandlersFor(t Type) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handler, 0, len(r.handlers[t])+len(r.all))
	out = append(out, r.handlers[t]...)
	out = append(out, r.all...)
	return out
}
