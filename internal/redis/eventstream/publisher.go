// Package eventstream appends every committed domain event to a Redis stream
// for subsystems outside this service (mail, push, analytics).
package eventstream

import (
	"context"
	"encoding/json"
	"fmt"

	"auctionhouse/internal/events"

	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	rdc    redis.Cmdable
	stream string
	maxLen int64
}

func New(rdc redis.Cmdable, stream string, maxLen int64) *Publisher {
	return &Publisher{rdc: rdc, stream: stream, maxLen: maxLen}
}

// Args builds the XADD arguments for ev.
func (p *Publisher) Args(ev events.Event) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventType(), err)
	}
	return &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: []string{
			"type", ev.EventType().String(),
			"event_id", ev.EventID().String(),
			"auction_id", ev.AggregateID().String(),
			"payload", string(payload),
		},
	}, nil
}

func (p *Publisher) Handle(ctx context.Context, ev events.Event) error {
	args, err := p.Args(ev)
	if err != nil {
		return err
	}
	if err := p.rdc.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

var _ events.Handler = (*Publisher)(nil)
