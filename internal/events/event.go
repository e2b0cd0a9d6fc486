// Package events holds the domain event contract and the in-process dispatcher
// that hands committed events to their consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event, e.g. "auction.created".
type Type string

func (t Type) String() string { return string(t) }

// Event is an immutable fact recorded when an auction changes state.
type Event interface {
	EventID() uuid.UUID
	EventType() Type
	OccurredAt() time.Time
	// AggregateID is the id of the auction the event belongs to.
	AggregateID() uuid.UUID
}

// Handler consumes events. Returned errors are logged by the dispatcher and
// never reach the command that produced the event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// BaseEvent carries the fields shared by every event. Concrete events embed it.
type BaseEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Kind      Type      `json:"event_type"`
	At        time.Time `json:"occurred_at"`
	AuctionID uuid.UUID `json:"auction_id"`
}

func NewBaseEvent(kind Type, auctionID uuid.UUID, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Kind:      kind,
		At:        at.UTC(),
		AuctionID: auctionID,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseEvent) EventType() Type        { return e.Kind }
func (e BaseEvent) OccurredAt() time.Time  { return e.At }
func (e BaseEvent) AggregateID() uuid.UUID { return e.AuctionID }
